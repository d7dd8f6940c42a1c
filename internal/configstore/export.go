package configstore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mrlokans/redshift-manager/internal/entities"
)

const exportFilePrefix = "redshift-manager-applet-config-"

// Document is a serialized configuration with a suggested file name.
type Document struct {
	Filename string
	Data     []byte
}

// ExportFilename is the timestamped name suggested for an export made at at.
func ExportFilename(at time.Time) string {
	return exportFilePrefix + at.UTC().Format("2006-01-02T15-04-05") + ".json"
}

// Export renders cfg as an indented document stamped with exportDate = at.
func Export(cfg entities.Configuration, at time.Time) (Document, error) {
	data, err := encodeDocument(cfg, stampExportDate, at)
	if err != nil {
		return Document{}, fmt.Errorf("%w: encode configuration: %v", ErrIO, err)
	}
	return Document{Filename: ExportFilename(at), Data: data}, nil
}

// WriteExport writes doc into dir, creating it when needed.
func WriteExport(dir string, doc Document) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: create export directory: %v", ErrIO, err)
	}
	path := filepath.Join(dir, doc.Filename)
	if err := os.WriteFile(path, doc.Data, 0644); err != nil {
		return "", fmt.Errorf("%w: write export: %v", ErrIO, err)
	}
	return path, nil
}
