package credstore

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wifiman-dev/wifiman-go/pkg/kdf"
	"github.com/wifiman-dev/wifiman-go/pkg/log"
)

// DefaultNamespace is the backend namespace credentials live in. The value
// matches the NVS namespace used by the original deployment.
const DefaultNamespace = "ssid"

// Store errors.
var (
	// ErrUnknownNetwork is returned by Get when no credential record
	// exists for the network.
	ErrUnknownNetwork = errors.New("unknown network")
)

// DeriveFunc derives a secret for a network from its passphrase.
// The default is kdf.DerivePSK.
type DeriveFunc func(networkID, passphrase string, progress kdf.ProgressFunc) ([]byte, error)

// StoreConfig customizes a Store.
type StoreConfig struct {
	// Backend is the persistence capability. Required.
	Backend Backend

	// Namespace overrides DefaultNamespace.
	Namespace string

	// Deriver overrides the derivation used by StoreSecret.
	// Defaults to kdf.DerivePSK.
	Deriver DeriveFunc

	// Logger receives store and derivation-progress events.
	// Defaults to log.NoopLogger.
	Logger log.Logger
}

// Store maps network IDs to derived secrets on top of a Backend.
type Store struct {
	// mu serializes mutations (single-writer discipline); reads go to the
	// backend directly.
	mu sync.Mutex

	backend   Backend
	namespace string
	deriver   DeriveFunc
	logger    log.Logger
}

// NewStore creates a Store over backend with default settings.
func NewStore(backend Backend) *Store {
	return NewStoreWithConfig(StoreConfig{Backend: backend})
}

// NewStoreWithConfig creates a Store with custom settings.
func NewStoreWithConfig(cfg StoreConfig) *Store {
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.Deriver == nil {
		cfg.Deriver = kdf.DerivePSK
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NoopLogger{}
	}

	return &Store{
		backend:   cfg.Backend,
		namespace: cfg.Namespace,
		deriver:   cfg.Deriver,
		logger:    cfg.Logger,
	}
}

// Put stores secret for networkID. The write is idempotent: if the stored
// record already equals secret byte-for-byte, the backend is not touched.
func (s *Store) Put(networkID string, secret []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.backend.Get(s.namespace, networkID)
	if err == nil && bytes.Equal(existing, secret) {
		s.logStore(networkID, log.StoreOpPut, false)
		return nil
	}
	if err != nil && !errors.Is(err, ErrKeyNotFound) {
		return fmt.Errorf("reading existing record for %q: %w", networkID, err)
	}

	if err := s.backend.Set(s.namespace, networkID, secret); err != nil {
		return fmt.Errorf("storing secret for %q: %w", networkID, err)
	}

	s.logStore(networkID, log.StoreOpPut, true)
	return nil
}

// Get returns the secret stored for networkID. Absence is reported as
// ErrUnknownNetwork; a stored zero-length secret is a present record and
// comes back as an empty slice. Backend I/O errors propagate unchanged.
func (s *Store) Get(networkID string) ([]byte, error) {
	secret, err := s.backend.Get(s.namespace, networkID)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNetwork, networkID)
	}
	if err != nil {
		return nil, err
	}

	s.logStore(networkID, log.StoreOpGet, false)
	return secret, nil
}

// Remove deletes the record for networkID. Removing an absent record is a
// silent success.
func (s *Store) Remove(networkID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.backend.Erase(s.namespace, networkID)
	if errors.Is(err, ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("removing record for %q: %w", networkID, err)
	}

	s.logStore(networkID, log.StoreOpRemove, true)
	return nil
}

// StoreSecret derives the secret for networkID from passphrase and caches
// it. If a record already exists the derivation is skipped entirely; the
// cache is the authority, so changing a network's passphrase requires
// Remove followed by StoreSecret.
func (s *Store) StoreSecret(networkID, passphrase string) error {
	if _, err := s.backend.Get(s.namespace, networkID); err == nil {
		s.logStore(networkID, log.StoreOpDerive, false)
		return nil
	} else if !errors.Is(err, ErrKeyNotFound) {
		return fmt.Errorf("reading existing record for %q: %w", networkID, err)
	}

	secret, err := s.deriver(networkID, passphrase, func(percent int) {
		s.logger.Log(log.Event{
			Timestamp: time.Now(),
			NetworkID: networkID,
			Category:  log.CategoryProgress,
			Progress:  &log.ProgressEvent{Percent: percent},
		})
	})
	if err != nil {
		return err
	}

	s.logStore(networkID, log.StoreOpDerive, true)
	return s.Put(networkID, secret)
}

// logStore emits a store operation event.
func (s *Store) logStore(networkID string, op log.StoreOp, written bool) {
	s.logger.Log(log.Event{
		Timestamp: time.Now(),
		NetworkID: networkID,
		Category:  log.CategoryStore,
		Store:     &log.StoreEvent{Op: op, Written: written},
	})
}
