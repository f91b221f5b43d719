// Package profile is the in-memory store behind the inline profile editor.
package profile

import (
	"errors"
	"strings"
	"sync"
	"unicode"
)

var (
	ErrNotFound  = errors.New("profile not found")
	ErrEmptyName = errors.New("name is required")
)

type Profile struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

// Initials returns the upper-cased first letters of at most two words.
func (p Profile) Initials() string {
	var initials []rune
	for _, word := range strings.Fields(p.Name) {
		initials = append(initials, unicode.ToUpper([]rune(word)[0]))
		if len(initials) == 2 {
			break
		}
	}
	return string(initials)
}

// Default is the profile the demo starts with.
var Default = Profile{
	ID:   1,
	Name: "Greg Lim",
	Bio:  "Follower of Christ | Author of Best-selling Amazon Tech Books and Creator of Coding Courses",
}

type Store struct {
	mu       sync.RWMutex
	profiles map[int]Profile
}

func NewStore(seed ...Profile) *Store {
	s := &Store{profiles: make(map[int]Profile, len(seed))}
	for _, p := range seed {
		s.profiles[p.ID] = p
	}
	return s
}

func (s *Store) Get(id int) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

// Update replaces name and bio of an existing profile.
func (s *Store) Update(id int, name, bio string) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Profile{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	p.Name = name
	p.Bio = strings.TrimSpace(bio)
	s.profiles[id] = p
	return p, nil
}
