package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// UserKey is the session key the user projection is stored under.
const UserKey = "user"

var ErrNotFound = errors.New("session not found")

// Projection is the subset of a user record carried across requests.
type Projection struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is per-client state. Values must be JSON-encodable.
type Session struct {
	ID       string         `json:"id"`
	Values   map[string]any `json:"values"`
	IssuedAt int64          `json:"iat"`
}

// Store persists sessions by id.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// New returns an empty session with a fresh random id.
func New() *Session {
	return &Session{
		ID:       uuid.NewString(),
		Values:   make(map[string]any),
		IssuedAt: time.Now().Unix(),
	}
}

// Get returns a value from the session.
func (s *Session) Get(key string) any {
	if s == nil {
		return nil
	}
	return s.Values[key]
}

// Put sets a value in the session.
func (s *Session) Put(key string, value any) {
	if s == nil {
		return
	}
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = value
}

func (s *Session) Delete(key string) {
	if s == nil {
		return
	}
	delete(s.Values, key)
}

// User returns the projection stored under UserKey. It accepts both the typed value
// written in-process and the generic map a decoded session carries.
func (s *Session) User() (Projection, bool) {
	switch v := s.Get(UserKey).(type) {
	case Projection:
		return v, true
	case *Projection:
		if v == nil {
			return Projection{}, false
		}
		return *v, true
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return Projection{}, false
		}
		var p Projection
		if err := json.Unmarshal(b, &p); err != nil {
			return Projection{}, false
		}
		return p, true
	default:
		return Projection{}, false
	}
}

func encode(s *Session) ([]byte, error) {
	return json.Marshal(s)
}

func decode(b []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	return &s, nil
}
