// Package session keeps the text accumulated for one browser session.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"arai/internal/model"
)

const CookieName = "arai_session"

var ErrNotFound = errors.New("session not found")

// Session is the per-visitor accumulator of generated sections
type Session struct {
	ID        string          `json:"id"`
	Input     model.Input     `json:"input"`
	Mode      model.Mode      `json:"mode"`
	Sections  []model.Section `json:"sections"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func New() (*Session, error) {
	id, err := NewID()
	if err != nil {
		return nil, err
	}
	return &Session{ID: id}, nil
}

// Append adds sections after the ones already accumulated
func (s *Session) Append(sections ...model.Section) {
	s.Sections = append(s.Sections, sections...)
}

// Replace drops the accumulated text and starts over with sections
func (s *Session) Replace(sections ...model.Section) {
	s.Sections = append([]model.Section(nil), sections...)
}

func (s *Session) Empty() bool {
	return len(s.Sections) == 0
}

// Text is the accumulated markdown
func (s *Session) Text() string {
	return model.JoinSections(s.Sections)
}

func (s *Session) clone() *Session {
	c := *s
	c.Sections = append([]model.Section(nil), s.Sections...)
	c.Input.KPIs = append([]string(nil), s.Input.KPIs...)
	return &c
}

type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	// Cleanup drops sessions idle since before now minus the TTL and
	// reports how many were removed.
	Cleanup(ctx context.Context, now time.Time) (int, error)
}

// NewID returns a random 64 character hex identifier
func NewID() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// ValidID reports whether id looks like something NewID produced
func ValidID(id string) bool {
	if len(id) != 64 {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}
