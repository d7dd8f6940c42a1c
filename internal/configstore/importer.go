package configstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/redshift-manager/internal/entities"
)

const (
	legacyDaySuffix   = " (Day)"
	legacyNightSuffix = " (Night)"
)

// Import decodes a configuration document over base. Besides the canonical
// hyphenated layout it accepts camelCase keys, the settings-file shape where
// every field is wrapped as {"value": X}, and the legacy layout with separate
// day-presets / night-presets lists. Fields absent from raw keep their value
// from base. On error base is returned unchanged.
func Import(raw []byte, base entities.Configuration) (entities.Configuration, error) {
	f, err := parseFields(raw)
	if err != nil {
		return base, err
	}

	_, hasDayTemp := f.lookup("day-temp", "dayTemp")
	legacyDay, hasLegacyDay := f.lookup("day-presets", "dayPresets")
	legacyNight, hasLegacyNight := f.lookup("night-presets", "nightPresets")
	if !hasDayTemp && !hasLegacyDay && !hasLegacyNight {
		return base, ErrInvalidFormat
	}

	cfg := base.Clone()
	d := &decoder{f: f}

	d.bool(&cfg.Enabled, "enabled")
	d.bool(&cfg.AutoUpdate, "auto-update", "autoUpdate")
	d.int(&cfg.UpdateIntervalSeconds, "update-interval", "updateIntervalSeconds")
	d.bool(&cfg.SmoothTransition, "smooth-transition", "smoothTransition")

	d.int(&cfg.Day.Temp, "day-temp", "dayTemp")
	d.int(&cfg.Day.Brightness, "day-brightness", "dayBrightness")
	d.int(&cfg.Night.Temp, "night-temp", "nightTemp")
	d.int(&cfg.Night.Brightness, "night-brightness", "nightBrightness")

	d.bool(&cfg.EnableNight, "enable-night", "enableNight")
	d.bool(&cfg.ManualNightTime, "manual-night-time", "manualNightTime")
	d.clock(&cfg.NightWindow.Start, "night-time-start", "nightTimeStart")
	d.clock(&cfg.NightWindow.End, "night-time-end", "nightTimeEnd")

	d.float(&cfg.Location.Latitude, "location-latitude", "locationLatitude")
	d.float(&cfg.Location.Longitude, "location-longitude", "locationLongitude")

	d.string(&cfg.Hotkeys.Toggle, "key-toggle", "keyToggle")
	d.string(&cfg.Hotkeys.TempUp, "key-temp-up", "keyTempUp")
	d.string(&cfg.Hotkeys.TempDown, "key-temp-down", "keyTempDown")
	d.string(&cfg.Hotkeys.BrightnessUp, "key-brightness-up", "keyBrightnessUp")
	d.string(&cfg.Hotkeys.BrightnessDown, "key-brightness-down", "keyBrightnessDown")

	// Legacy day/night lists replace any presets list in the same document.
	if hasLegacyDay || hasLegacyNight {
		presets, err := mergeLegacyPresets(legacyDay, legacyNight)
		d.fail("day-presets", err)
		if err == nil {
			cfg.Presets = presets
		}
	} else if v, ok := f.lookup("presets"); ok {
		presets, err := decodePresetList(v)
		d.fail("presets", err)
		if err == nil {
			cfg.Presets = presets
		}
	}

	d.timestamp(&cfg.SavedAt, "lastSaved", "exportDate")
	d.string(&cfg.Version, "version")

	if d.err != nil {
		return base, d.err
	}

	cfg.Normalize()
	entities.EnsurePresetIDs(cfg.Presets)
	return cfg, nil
}

// DecodePresets parses a preset list as held by the settings backend. The
// value may be a JSON array or a JSON string that itself contains the array.
// An empty or null value yields an empty list.
func DecodePresets(value string) ([]entities.Preset, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || trimmed == "null" {
		return []entities.Preset{}, nil
	}
	return decodePresetList(json.RawMessage(trimmed))
}

type fields map[string]json.RawMessage

func parseFields(raw []byte) (fields, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	out := make(fields, len(m))
	for k, v := range m {
		out[k] = unwrap(v)
	}
	return out, nil
}

// unwrap returns X for an object carrying a "value" member, v otherwise.
func unwrap(v json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(v)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return v
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return v
	}
	if inner, ok := obj["value"]; ok {
		return inner
	}
	return v
}

func isNull(v json.RawMessage) bool {
	trimmed := bytes.TrimSpace(v)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// lookup returns the value of the last present key, so camelCase aliases
// listed after the hyphenated name take precedence.
func (f fields) lookup(keys ...string) (json.RawMessage, bool) {
	var out json.RawMessage
	found := false
	for _, k := range keys {
		if v, ok := f[k]; ok && !isNull(v) {
			out = v
			found = true
		}
	}
	return out, found
}

// decoder assigns fields leniently and keeps the first error.
type decoder struct {
	f   fields
	err error
}

func (d *decoder) fail(key string, err error) {
	if err != nil && d.err == nil {
		d.err = fmt.Errorf("%w: field %q: %v", ErrInvalidFormat, key, err)
	}
}

func (d *decoder) bool(dst *bool, keys ...string) {
	v, ok := d.f.lookup(keys...)
	if !ok {
		return
	}
	var b bool
	if err := json.Unmarshal(v, &b); err == nil {
		*dst = b
		return
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		parsed, err := strconv.ParseBool(strings.TrimSpace(s))
		d.fail(keys[0], err)
		if err == nil {
			*dst = parsed
		}
		return
	}
	n, err := number(v)
	d.fail(keys[0], err)
	if err == nil {
		*dst = n != 0
	}
}

func (d *decoder) int(dst *int, keys ...string) {
	v, ok := d.f.lookup(keys...)
	if !ok {
		return
	}
	n, err := number(v)
	d.fail(keys[0], err)
	if err == nil {
		*dst = int(math.Round(n))
	}
}

func (d *decoder) float(dst *float64, keys ...string) {
	v, ok := d.f.lookup(keys...)
	if !ok {
		return
	}
	n, err := number(v)
	d.fail(keys[0], err)
	if err == nil {
		*dst = n
	}
}

func (d *decoder) string(dst *string, keys ...string) {
	v, ok := d.f.lookup(keys...)
	if !ok {
		return
	}
	var s string
	err := json.Unmarshal(v, &s)
	d.fail(keys[0], err)
	if err == nil {
		*dst = s
	}
}

func (d *decoder) clock(dst *entities.TimeOfDay, keys ...string) {
	v, ok := d.f.lookup(keys...)
	if !ok {
		return
	}
	t, err := parseClock(v)
	d.fail(keys[0], err)
	if err == nil {
		*dst = t
	}
}

// timestamp is metadata only; unparsable values are ignored.
func (d *decoder) timestamp(dst *time.Time, keys ...string) {
	v, ok := d.f.lookup(keys...)
	if !ok {
		return
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*dst = t.UTC()
	}
}

// number accepts a JSON number or a string holding one. An empty string is 0.
func number(v json.RawMessage) (float64, error) {
	var n float64
	if err := json.Unmarshal(v, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, fmt.Errorf("expected number, got %s", string(v))
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// parseClock accepts {"h":20,"m":0,"s":0}, {"hour":20,"minute":0} or "20:00".
func parseClock(v json.RawMessage) (entities.TimeOfDay, error) {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		t, err := time.Parse("15:04", strings.TrimSpace(s))
		if err != nil {
			return entities.TimeOfDay{}, err
		}
		return entities.TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
	}

	var obj struct {
		H      *float64 `json:"h"`
		M      *float64 `json:"m"`
		Hour   *float64 `json:"hour"`
		Minute *float64 `json:"minute"`
	}
	if err := json.Unmarshal(v, &obj); err != nil {
		return entities.TimeOfDay{}, err
	}
	hour := firstNumber(obj.H, obj.Hour)
	minute := firstNumber(obj.M, obj.Minute)
	return entities.TimeOfDay{Hour: int(hour), Minute: int(minute)}, nil
}

func firstNumber(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

type presetInput struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Shortcut        string   `json:"shortcut"`
	DayTemp         *float64 `json:"dayTemp"`
	DayBrightness   *float64 `json:"dayBrightness"`
	NightTemp       *float64 `json:"nightTemp"`
	NightBrightness *float64 `json:"nightBrightness"`
}

func orDefault(v *float64, def int) int {
	if v == nil {
		return def
	}
	return int(math.Round(*v))
}

func decodePresetList(v json.RawMessage) ([]entities.Preset, error) {
	trimmed := bytes.TrimSpace(v)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		trimmed = bytes.TrimSpace([]byte(inner))
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			return []entities.Preset{}, nil
		}
	}

	var inputs []presetInput
	if err := json.Unmarshal(trimmed, &inputs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	presets := make([]entities.Preset, 0, len(inputs))
	for _, in := range inputs {
		presets = append(presets, entities.Preset{
			ID:       in.ID,
			Name:     in.Name,
			Shortcut: in.Shortcut,
			Day: entities.ColorSetting{
				Temp:       orDefault(in.DayTemp, entities.DefaultDay.Temp),
				Brightness: orDefault(in.DayBrightness, entities.DefaultDay.Brightness),
			},
			Night: entities.ColorSetting{
				Temp:       orDefault(in.NightTemp, entities.DefaultNight.Temp),
				Brightness: orDefault(in.NightBrightness, entities.DefaultNight.Brightness),
			},
		})
	}
	return presets, nil
}

type legacyPreset struct {
	Name       string   `json:"name"`
	Temp       *float64 `json:"temp"`
	Brightness *float64 `json:"brightness"`
}

// mergeLegacyPresets turns separate day and night lists into unified presets.
// Day entries come first; the opposite block of each entry gets the defaults.
func mergeLegacyPresets(day, night json.RawMessage) ([]entities.Preset, error) {
	presets := []entities.Preset{}

	if !isNull(day) {
		var entries []legacyPreset
		if err := json.Unmarshal(day, &entries); err != nil {
			return nil, err
		}
		for _, e := range entries {
			presets = append(presets, entities.Preset{
				Name: e.Name + legacyDaySuffix,
				Day: entities.ColorSetting{
					Temp:       orDefault(e.Temp, entities.DefaultDay.Temp),
					Brightness: orDefault(e.Brightness, entities.DefaultDay.Brightness),
				},
				Night: entities.DefaultNight,
			})
		}
	}

	if !isNull(night) {
		var entries []legacyPreset
		if err := json.Unmarshal(night, &entries); err != nil {
			return nil, err
		}
		for _, e := range entries {
			presets = append(presets, entities.Preset{
				Name: e.Name + legacyNightSuffix,
				Day:  entities.DefaultDay,
				Night: entities.ColorSetting{
					Temp:       orDefault(e.Temp, entities.DefaultNight.Temp),
					Brightness: orDefault(e.Brightness, entities.DefaultNight.Brightness),
				},
			})
		}
	}

	return presets, nil
}
