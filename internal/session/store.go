// Package session keeps the context text of each interactive session in memory.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// DefaultContext seeds every new session so questions work before any upload.
const DefaultContext = "Artificial Intelligence (AI) is intelligence demonstrated by machines, in contrast to the natural intelligence displayed by humans and animals. Leading AI textbooks define the field as the study of intelligent agents. AI was founded as an academic discipline in 1956. AI research has tried and discarded many different approaches, including simulating the brain, modeling human problem solving, formal logic, large databases of knowledge, and imitating animal behavior. In the first decades of the 21st century, highly mathematical statistical machine learning has dominated the field."

const (
	SourceDefault = "default"
	SourceText    = "text"
)

// Session is one user's current context. Context is replaced wholesale, never edited in place.
type Session struct {
	ID        string    `json:"id"`
	Context   string    `json:"context"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is an in-memory, TTL-bounded session registry. Reads return copies.
type Store struct {
	mu    sync.Mutex
	cache *cache.Cache
}

// NewStore creates a store whose sessions expire ttl after their last update.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	cleanup := ttl / 6
	if cleanup < time.Second {
		cleanup = time.Second
	}
	return &Store{cache: cache.New(ttl, cleanup)}
}

// Create starts a session holding DefaultContext.
func (s *Store) Create() Session {
	now := time.Now()
	sess := Session{
		ID:        uuid.NewString(),
		Context:   DefaultContext,
		Source:    SourceDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.cache.Set(sess.ID, sess, cache.DefaultExpiration)
	return sess
}

func (s *Store) Get(id string) (Session, bool) {
	if x, found := s.cache.Get(id); found {
		return x.(Session), true
	}
	return Session{}, false
}

// SetContext replaces the context of an existing session and refreshes its TTL.
func (s *Store) SetContext(id, text, source string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.Get(id)
	if !ok {
		return Session{}, false
	}
	sess.Context = text
	sess.Source = source
	sess.UpdatedAt = time.Now()
	s.cache.Set(id, sess, cache.DefaultExpiration)
	return sess, true
}

func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.Get(id); !ok {
		return false
	}
	s.cache.Delete(id)
	return true
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
