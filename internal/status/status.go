// Package status holds the observable status line shown to the user.
package status

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Status is one published snapshot.
type Status struct {
	Text       string    `json:"text"`
	Tooltip    string    `json:"tooltip"`
	Active     bool      `json:"active"`
	Night      bool      `json:"night"`
	Temp       int       `json:"temp"`
	Brightness int       `json:"brightness"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Text returns "Inactive" or "Active — {temp}K @ {brightness}%".
func Text(active bool, temp, brightness int) string {
	if !active {
		return "Inactive"
	}
	return fmt.Sprintf("Active — %dK @ %d%%", temp, brightness)
}

// Tooltip prefixes the status text.
func Tooltip(text string) string {
	return "Redshift: " + text
}

// New builds a Status with text and tooltip filled in.
func New(active, night bool, temp, brightness int, at time.Time) Status {
	text := Text(active, temp, brightness)
	return Status{
		Text:       text,
		Tooltip:    Tooltip(text),
		Active:     active,
		Night:      night,
		Temp:       temp,
		Brightness: brightness,
		UpdatedAt:  at,
	}
}

// Publisher receives status updates.
type Publisher interface {
	Publish(s Status)
}

// Board keeps the latest status and fans it out to listeners.
type Board struct {
	mu        sync.RWMutex
	current   Status
	listeners []func(Status)
}

func NewBoard() *Board {
	return &Board{current: New(false, false, 0, 0, time.Time{})}
}

func (b *Board) Publish(s Status) {
	b.mu.Lock()
	changed := s.Text != b.current.Text
	b.current = s
	listeners := append([]func(Status){}, b.listeners...)
	b.mu.Unlock()

	if changed {
		log.Printf("Status: %s", s.Text)
	}
	for _, fn := range listeners {
		fn(s)
	}
}

func (b *Board) Current() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}

// Listen registers fn for every future Publish.
func (b *Board) Listen(fn func(Status)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}
