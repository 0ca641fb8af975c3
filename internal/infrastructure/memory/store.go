// Package memory is an in-process implementation of the repositories.
// It backs STORE_DRIVER=memory and the HTTP tests; all state is lost on exit.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/devconnector/internal/domain/entity"
)

// Store holds every aggregate behind one lock so that deleting a user can
// drop its profile and posts atomically.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*entity.User
	profiles map[string]*entity.Profile // keyed by user id
	posts    map[string]*entity.Post
	// insertion order, oldest first
	profileOrder []string
	postOrder    []string
	now          func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:    map[string]*entity.User{},
		profiles: map[string]*entity.Profile{},
		posts:    map[string]*entity.Post{},
		now:      time.Now,
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Profiles returns the profile repository view of the store.
func (s *Store) Profiles() *ProfileRepository { return &ProfileRepository{s: s} }

// Posts returns the post repository view of the store.
func (s *Store) Posts() *PostRepository { return &PostRepository{s: s} }

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Round(time.Microsecond)
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func newID() string { return uuid.NewString() }
