package configstore

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/mrlokans/redshift-manager/internal/audit"
	"github.com/mrlokans/redshift-manager/internal/entities"
)

// FileAdapter persists the configuration document. Read must return an error
// matching fs.ErrNotExist when nothing has been saved yet.
type FileAdapter interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// Backend is the external key/value settings store. Only the presets key is used.
type Backend interface {
	GetValue(key string) (value string, ok bool, err error)
	SetValue(key, value string) error
}

type Options struct {
	Now     func() time.Time
	Version string
	Auditor *audit.Auditor
	Events  *audit.Service
}

// Store owns the canonical configuration and mediates between the file and
// the settings backend. The presets field is replicated to the backend; every
// other field lives in the file only.
//
// Store is not safe for concurrent use. The agent calls it from its task queue.
type Store struct {
	file    FileAdapter
	backend Backend
	now     func() time.Time
	version string
	auditor *audit.Auditor
	events  *audit.Service

	cfg entities.Configuration

	// set while this store writes to the backend or the file, so that a
	// notification raised by that write is not propagated back
	updatingPresets bool
	updatingFile    bool

	fileHash [sha256.Size]byte
}

func New(file FileAdapter, backend Backend, opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	version := opts.Version
	if version == "" {
		version = DefaultVersion
	}
	return &Store{
		file:    file,
		backend: backend,
		now:     now,
		version: version,
		auditor: opts.Auditor,
		events:  opts.Events,
		cfg:     entities.DefaultConfiguration(),
	}
}

// Load reads the file (defaults when missing) and then takes the presets from
// the backend. When the backend holds no presets yet, the file's presets are
// pushed to it. The returned configuration is always usable; the error only
// reports what could not be read.
func (s *Store) Load() (entities.Configuration, error) {
	cfg := entities.DefaultConfiguration()
	cfg.Version = s.version

	var errs []error

	raw, err := s.file.Read()
	switch {
	case err == nil:
		s.fileHash = sha256.Sum256(raw)
		imported, importErr := Import(raw, cfg)
		if importErr != nil {
			log.Printf("ConfigStore: ignoring saved configuration: %v", importErr)
			errs = append(errs, importErr)
		} else {
			cfg = imported
		}
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("ConfigStore: no saved configuration found, using defaults")
	default:
		errs = append(errs, fmt.Errorf("%w: read configuration: %v", ErrIO, err))
	}

	entities.EnsurePresetIDs(cfg.Presets)
	s.cfg = cfg

	if s.backend != nil {
		value, ok, err := s.backend.GetValue(entities.SettingKeyPresets)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%w: read backend presets: %v", ErrIO, err))
		case ok && strings.TrimSpace(value) != "":
			presets, decodeErr := DecodePresets(value)
			if decodeErr != nil {
				log.Printf("ConfigStore: ignoring backend presets: %v", decodeErr)
				errs = append(errs, decodeErr)
				break
			}
			entities.EnsurePresetIDs(presets)
			s.cfg.Presets = presets
		default:
			if err := s.syncBackend(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	log.Printf("ConfigStore: loaded configuration with %d presets", len(s.cfg.Presets))
	return s.cfg.Clone(), errors.Join(errs...)
}

// Current returns a copy of the canonical configuration.
func (s *Store) Current() entities.Configuration {
	return s.cfg.Clone()
}

// Save replaces the canonical configuration, rewrites the file and writes the
// presets to the backend only when they differ from what it holds. The
// in-memory copy is replaced even when persisting fails.
func (s *Store) Save(cfg entities.Configuration) error {
	cfg = cfg.Clone()
	cfg.Normalize()
	entities.EnsurePresetIDs(cfg.Presets)
	if cfg.Version == "" {
		cfg.Version = s.version
	}
	cfg.SavedAt = s.now().UTC()
	s.cfg = cfg

	var errs []error
	if err := s.writeFile(); err != nil {
		errs = append(errs, err)
	}
	if err := s.syncBackend(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Store) writeFile() error {
	data, err := encodeDocument(s.cfg, stampLastSaved, s.cfg.SavedAt)
	if err != nil {
		return fmt.Errorf("%w: encode configuration: %v", ErrIO, err)
	}

	s.updatingFile = true
	err = s.file.Write(data)
	s.updatingFile = false
	if err != nil {
		log.Printf("ConfigStore: error saving configuration: %v", err)
		return fmt.Errorf("%w: write configuration: %v", ErrIO, err)
	}

	s.fileHash = sha256.Sum256(data)
	return nil
}

func (s *Store) syncBackend() error {
	if s.backend == nil || s.updatingPresets {
		return nil
	}

	canonical := EncodePresets(s.cfg.Presets)
	current, ok, err := s.backend.GetValue(entities.SettingKeyPresets)
	if err != nil {
		return fmt.Errorf("%w: read backend presets: %v", ErrIO, err)
	}
	if ok {
		if decoded, err := DecodePresets(current); err == nil && EncodePresets(decoded) == canonical {
			return nil
		}
	}

	s.updatingPresets = true
	defer func() { s.updatingPresets = false }()

	if err := s.backend.SetValue(entities.SettingKeyPresets, canonical); err != nil {
		log.Printf("ConfigStore: error syncing presets to settings backend: %v", err)
		return fmt.Errorf("%w: write backend presets: %v", ErrIO, err)
	}
	log.Printf("ConfigStore: presets synced to settings backend")
	return nil
}

// HandleBackendChange adopts a presets value delivered by the backend and
// persists it. It reports whether the presets changed. Values equal to the
// canonical presets, and notifications raised during this store's own backend
// write, are ignored. The backend is rewritten only when it no longer holds
// the adopted value, so both stores end up with the same presets.
func (s *Store) HandleBackendChange(value string) (bool, error) {
	if s.updatingPresets {
		return false, nil
	}

	presets, err := DecodePresets(value)
	if err != nil {
		return false, err
	}
	if EncodePresets(presets) == EncodePresets(s.cfg.Presets) {
		return false, nil
	}

	cfg := s.cfg.Clone()
	cfg.Presets = presets
	log.Printf("ConfigStore: presets changed in settings backend (%d presets)", len(presets))
	return true, s.Save(cfg)
}

// HandleFileChange re-reads the file after an external edit and adopts it.
// Echoes of this store's own writes are recognised by content hash. It
// reports whether the configuration changed.
func (s *Store) HandleFileChange() (bool, error) {
	if s.updatingFile {
		return false, nil
	}

	raw, err := s.file.Read()
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: read configuration: %v", ErrIO, err)
	}

	hash := sha256.Sum256(raw)
	if hash == s.fileHash {
		return false, nil
	}

	cfg, err := Import(raw, s.cfg)
	if err != nil {
		return false, err
	}
	s.fileHash = hash

	if sameSettings(cfg, s.cfg) {
		return false, nil
	}

	log.Printf("ConfigStore: configuration file changed externally")
	s.cfg = cfg
	return true, s.syncBackend()
}

// sameSettings compares two configurations ignoring save metadata.
func sameSettings(a, b entities.Configuration) bool {
	a.SavedAt, b.SavedAt = time.Time{}, time.Time{}
	a.Version, b.Version = "", ""
	return reflect.DeepEqual(a, b)
}

// ImportBytes imports a document over the current configuration and saves
// the result. The previous configuration is kept as an audit snapshot. An
// error means nothing was applied; a failure to persist the imported
// configuration is only logged.
func (s *Store) ImportBytes(raw []byte, source string) (entities.Configuration, error) {
	cfg, err := Import(raw, s.cfg)
	if err != nil {
		log.Printf("ConfigStore: error importing configuration from %s: %v", source, err)
		s.events.LogImport(source, "", 0, err)
		return s.cfg.Clone(), err
	}

	snapshot := ""
	if s.auditor != nil {
		if data, encErr := encodeDocument(s.cfg, stampLastSaved, s.cfg.SavedAt); encErr == nil {
			if name, saveErr := s.auditor.SaveRaw(data); saveErr != nil {
				log.Printf("ConfigStore: failed to save pre-import snapshot: %v", saveErr)
			} else {
				snapshot = name
			}
		}
	}

	saveErr := s.Save(cfg)
	s.events.LogImport(source, snapshot, len(cfg.Presets), saveErr)
	if saveErr != nil {
		log.Printf("ConfigStore: imported configuration from %s is active but not persisted: %v", source, saveErr)
	} else {
		log.Printf("ConfigStore: configuration imported from %s", source)
	}
	return s.cfg.Clone(), nil
}

// ImportFile reads path and imports it.
func (s *Store) ImportFile(path string) (entities.Configuration, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("%w: read %s: %v", ErrIO, path, err)
		s.events.LogImport(path, "", 0, err)
		return s.cfg.Clone(), err
	}
	return s.ImportBytes(raw, path)
}

// Export serializes the current configuration for download.
func (s *Store) Export() (Document, error) {
	return Export(s.cfg, s.now())
}

// ExportTo writes the current configuration into dir and returns the file path.
func (s *Store) ExportTo(dir string) (string, error) {
	doc, err := s.Export()
	if err != nil {
		s.events.LogExport(dir, err)
		return "", err
	}
	path, err := WriteExport(dir, doc)
	s.events.LogExport(path, err)
	if err != nil {
		log.Printf("ConfigStore: error exporting configuration: %v", err)
		return "", err
	}
	log.Printf("ConfigStore: configuration exported to %s", path)
	return path, nil
}
