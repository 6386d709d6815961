package demoapp

import (
	"errors"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("email or password is invalid")

type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash []byte
	Bio          string
	Image        string
	CreatedAt    time.Time
}

// FieldErrors maps a field to its messages, in the shape the Conduit API
// returns under "errors".
type FieldErrors map[string][]string

func (e FieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msgs := range e {
		for _, m := range msgs {
			parts = append(parts, field+" "+m)
		}
	}
	return strings.Join(parts, "; ")
}

// Store keeps users in memory, indexed by lower-cased email and username.
type Store struct {
	mu         sync.RWMutex
	byEmail    map[string]*User
	byUsername map[string]*User
	byID       map[uuid.UUID]*User
	cost       int
}

func NewStore(bcryptCost int) *Store {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Store{
		byEmail:    make(map[string]*User),
		byUsername: make(map[string]*User),
		byID:       make(map[uuid.UUID]*User),
		cost:       bcryptCost,
	}
}

func (s *Store) Register(username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	errs := FieldErrors{}
	if username == "" {
		errs.add("username", "can't be blank")
	}
	if email == "" {
		errs.add("email", "can't be blank")
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		errs.add("email", "is invalid")
	}
	if password == "" {
		errs.add("password", "can't be blank")
	}
	if len(errs) > 0 {
		return nil, errs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[strings.ToLower(email)]; taken {
		errs.add("email", "has already been taken")
	}
	if _, taken := s.byUsername[strings.ToLower(username)]; taken {
		errs.add("username", "has already been taken")
	}
	if len(errs) > 0 {
		return nil, errs
	}

	u := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	s.byEmail[strings.ToLower(email)] = u
	s.byUsername[strings.ToLower(username)] = u
	s.byID[u.ID] = u
	return u, nil
}

func (s *Store) Authenticate(email, password string) (*User, error) {
	s.mu.RLock()
	u, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Store) Get(id uuid.UUID) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	return u, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
