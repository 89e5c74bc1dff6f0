// Package memory implements an in-memory itip.IdentityProvider.
package memory

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Identity is a sender identity configured for a key
type Identity struct {
	FromAddress string `yaml:"from_address"`
	FullName    string `yaml:"full_name"`
}

// Store implements an in-memory identity provider
type Store struct {
	mu         sync.RWMutex
	identities map[string]Identity // map[key]Identity
	logger     *slog.Logger
}

// New creates a new in-memory identity store
func New(opts ...Option) *Store {
	s := &Store{
		identities: make(map[string]Identity),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	// Apply options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Option represents a configuration option for the Store
type Option func(*Store)

// WithLogger sets the logger for the store
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// AddIdentity registers an identity under key
func (s *Store) AddIdentity(key string, id Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.identities[key]; exists {
		s.logger.Warn("failed to add identity: already exists",
			"key", key)
		return fmt.Errorf("identity already exists: %s", key)
	}

	s.identities[key] = id

	s.logger.Info("identity added successfully",
		"key", key)

	return nil
}

// RemoveIdentity drops the identity registered under key
func (s *Store) RemoveIdentity(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.identities, key)
}

// Load reads identities from a YAML mapping of key to identity, e.g.
//
//	test:
//	  from_address: test@example.org
//	  full_name: Mr. Test
func (s *Store) Load(r io.Reader) error {
	var ids map[string]Identity
	if err := yaml.NewDecoder(r).Decode(&ids); err != nil && err != io.EOF {
		return fmt.Errorf("failed to decode identities: %w", err)
	}
	for key, id := range ids {
		if err := s.AddIdentity(key, id); err != nil {
			return err
		}
	}
	return nil
}

// FromAddress implements itip.IdentityProvider
func (s *Store) FromAddress(key string) string {
	s.mu.RLock()
	id, exists := s.identities[key]
	s.mu.RUnlock()

	if !exists {
		s.logger.Debug("identity not configured", "key", key)
		return ""
	}
	return strings.TrimSpace(id.FromAddress)
}

// FullName implements itip.IdentityProvider
func (s *Store) FullName(key string) string {
	s.mu.RLock()
	id, exists := s.identities[key]
	s.mu.RUnlock()

	if !exists {
		return ""
	}
	return strings.TrimSpace(id.FullName)
}
