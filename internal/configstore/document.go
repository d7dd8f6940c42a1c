package configstore

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/mrlokans/redshift-manager/internal/entities"
)

// DefaultVersion is written when a configuration carries no version.
const DefaultVersion = "0.0.1"

// clockTime is the {h, m, s} shape used for the night window bounds.
type clockTime struct {
	H int `json:"h"`
	M int `json:"m"`
	S int `json:"s"`
}

type presetDocument struct {
	ID              string `json:"id,omitempty"`
	Name            string `json:"name"`
	Shortcut        string `json:"shortcut"`
	DayTemp         int    `json:"dayTemp"`
	DayBrightness   int    `json:"dayBrightness"`
	NightTemp       int    `json:"nightTemp"`
	NightBrightness int    `json:"nightBrightness"`
}

// fileDocument is the canonical on-disk layout. Field order follows the
// historical applet files so diffs between versions stay small.
type fileDocument struct {
	Enabled           bool             `json:"enabled"`
	AutoUpdate        bool             `json:"auto-update"`
	UpdateInterval    int              `json:"update-interval"`
	SmoothTransition  bool             `json:"smooth-transition"`
	DayTemp           int              `json:"day-temp"`
	DayBrightness     int              `json:"day-brightness"`
	EnableNight       bool             `json:"enable-night"`
	ManualNightTime   bool             `json:"manual-night-time"`
	NightTimeStart    clockTime        `json:"night-time-start"`
	NightTimeEnd      clockTime        `json:"night-time-end"`
	LocationLatitude  string           `json:"location-latitude"`
	LocationLongitude string           `json:"location-longitude"`
	NightTemp         int              `json:"night-temp"`
	NightBrightness   int              `json:"night-brightness"`
	KeyToggle         string           `json:"key-toggle"`
	KeyTempUp         string           `json:"key-temp-up"`
	KeyTempDown       string           `json:"key-temp-down"`
	KeyBrightnessUp   string           `json:"key-brightness-up"`
	KeyBrightnessDown string           `json:"key-brightness-down"`
	Presets           []presetDocument `json:"presets"`
	LastSaved         string           `json:"lastSaved,omitempty"`
	ExportDate        string           `json:"exportDate,omitempty"`
	Version           string           `json:"version"`
}

type stampKind int

const (
	stampLastSaved stampKind = iota
	stampExportDate
)

func toPresetDocuments(presets []entities.Preset) []presetDocument {
	docs := make([]presetDocument, 0, len(presets))
	for _, p := range presets {
		docs = append(docs, presetDocument{
			ID:              p.ID,
			Name:            p.Name,
			Shortcut:        p.Shortcut,
			DayTemp:         p.Day.Temp,
			DayBrightness:   p.Day.Brightness,
			NightTemp:       p.Night.Temp,
			NightBrightness: p.Night.Brightness,
		})
	}
	return docs
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// encodeDocument serializes cfg in the canonical hyphenated layout. The
// timestamp goes under lastSaved or exportDate depending on kind.
func encodeDocument(cfg entities.Configuration, kind stampKind, at time.Time) ([]byte, error) {
	version := cfg.Version
	if version == "" {
		version = DefaultVersion
	}

	doc := fileDocument{
		Enabled:           cfg.Enabled,
		AutoUpdate:        cfg.AutoUpdate,
		UpdateInterval:    cfg.UpdateIntervalSeconds,
		SmoothTransition:  cfg.SmoothTransition,
		DayTemp:           cfg.Day.Temp,
		DayBrightness:     cfg.Day.Brightness,
		EnableNight:       cfg.EnableNight,
		ManualNightTime:   cfg.ManualNightTime,
		NightTimeStart:    clockTime{H: cfg.NightWindow.Start.Hour, M: cfg.NightWindow.Start.Minute},
		NightTimeEnd:      clockTime{H: cfg.NightWindow.End.Hour, M: cfg.NightWindow.End.Minute},
		LocationLatitude:  formatCoordinate(cfg.Location.Latitude),
		LocationLongitude: formatCoordinate(cfg.Location.Longitude),
		NightTemp:         cfg.Night.Temp,
		NightBrightness:   cfg.Night.Brightness,
		KeyToggle:         cfg.Hotkeys.Toggle,
		KeyTempUp:         cfg.Hotkeys.TempUp,
		KeyTempDown:       cfg.Hotkeys.TempDown,
		KeyBrightnessUp:   cfg.Hotkeys.BrightnessUp,
		KeyBrightnessDown: cfg.Hotkeys.BrightnessDown,
		Presets:           toPresetDocuments(cfg.Presets),
		Version:           version,
	}

	stamp := at.UTC().Format(time.RFC3339Nano)
	switch kind {
	case stampExportDate:
		doc.ExportDate = stamp
	default:
		doc.LastSaved = stamp
	}

	return marshal(doc, "  ")
}

// marshal encodes without HTML escaping so shortcut specs like <Super>r stay readable.
func marshal(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// EncodePresets returns the canonical compact form of a preset list, as
// stored in the settings backend. Equal lists always encode identically.
func EncodePresets(presets []entities.Preset) string {
	data, _ := marshal(toPresetDocuments(presets), "")
	return string(data)
}
