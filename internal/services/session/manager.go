// Package session owns the gateway's single MongoDB session.
package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/unifiedui/mongo-viewer/internal/core/docdb"
	"github.com/unifiedui/mongo-viewer/internal/domain/errors"
)

// DefaultDisconnectTimeout bounds how long closing a session may take.
const DefaultDisconnectTimeout = 10 * time.Second

// ErrConnectInterrupted is the cause reported by a Connect whose dial
// finished after a Disconnect or Shutdown.
var ErrConnectInterrupted = stderrors.New("session closed while connecting")

// Status is a snapshot of the session for health reporting.
type Status struct {
	Connected   bool
	ConnectedAt time.Time
	// Descriptor is the connection string with credentials masked.
	Descriptor string
}

// Config holds the dependencies of a Manager.
type Config struct {
	Connector docdb.Connector
	// Store persists the active descriptor; nil disables persistence.
	Store             Store
	DisconnectTimeout time.Duration
}

// Manager holds at most one open client.
//
// Installing and closing the client take the write lock. Readers hold the read
// lock for the duration of their driver call, so a disconnect waits for
// in-flight reads. Dialing happens outside the lock, so Status and reads never
// wait on a slow connect.
type Manager struct {
	connector         docdb.Connector
	store             Store
	disconnectTimeout time.Duration

	// connectMu serialises Connect calls.
	connectMu sync.Mutex

	mu          sync.RWMutex
	client      docdb.Client
	descriptor  string
	connectedAt time.Time
	// generation changes on every close, so a dial that raced a
	// Disconnect or Shutdown is discarded.
	generation uint64
}

// NewManager creates a new session manager.
func NewManager(cfg *Config) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Connector == nil {
		return nil, fmt.Errorf("connector is required")
	}

	timeout := cfg.DisconnectTimeout
	if timeout <= 0 {
		timeout = DefaultDisconnectTimeout
	}

	return &Manager{
		connector:         cfg.Connector,
		store:             cfg.Store,
		disconnectTimeout: timeout,
	}, nil
}

// Connect replaces the current session with one opened from descriptor.
// Any previous session is closed first, even if the new one then fails.
func (m *Manager) Connect(ctx context.Context, descriptor string) error {
	descriptor = strings.TrimSpace(descriptor)
	if descriptor == "" {
		return errors.NewValidationError("Connection string is required", "")
	}

	m.connectMu.Lock()
	defer m.connectMu.Unlock()

	m.mu.Lock()
	if err := m.closeLocked(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to close previous mongodb session")
	}
	generation := m.generation
	m.mu.Unlock()

	client, err := m.connector.Connect(ctx, descriptor)
	if err != nil {
		log.Error().Err(err).Str("descriptor", RedactURI(descriptor)).Msg("connection error")
		return errors.NewInternalError("Failed to connect: "+err.Error(), err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generation != generation {
		m.discard(ctx, client)
		return errors.NewInternalError("Failed to connect: "+ErrConnectInterrupted.Error(), ErrConnectInterrupted)
	}

	m.client = client
	m.descriptor = RedactURI(descriptor)
	m.connectedAt = time.Now().UTC()

	if m.store != nil {
		if err := m.store.Save(ctx, descriptor); err != nil {
			log.Warn().Err(err).Msg("failed to persist session descriptor")
		}
	}

	log.Info().Str("descriptor", m.descriptor).Msg("connected to mongodb")
	return nil
}

// Disconnect closes the session and forgets the persisted descriptor.
// It succeeds when no session is held.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Clear(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to clear persisted session descriptor")
		}
	}

	wasConnected := m.client != nil
	if err := m.closeLocked(ctx); err != nil {
		return errors.NewInternalError(err.Error(), err)
	}
	if wasConnected {
		log.Info().Msg("mongodb connection closed")
	}
	return nil
}

// Shutdown closes the session but keeps the persisted descriptor so that
// the next process can restore it.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closeLocked(ctx)
}

// Restore reopens the persisted session, if any.
// It reports whether a session was restored.
func (m *Manager) Restore(ctx context.Context) (bool, error) {
	if m.store == nil {
		return false, nil
	}

	descriptor, err := m.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load persisted session: %w", err)
	}
	if descriptor == "" {
		return false, nil
	}

	if err := m.Connect(ctx, descriptor); err != nil {
		return false, err
	}
	return true, nil
}

// Status returns a snapshot of the session.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Status{
		Connected:   m.client != nil,
		ConnectedAt: m.connectedAt,
		Descriptor:  m.descriptor,
	}
}

// Connected reports whether a session is held.
func (m *Manager) Connected() bool {
	return m.Status().Connected
}

// Acquire returns the current client under the read lock.
// The caller must call release exactly once when done with the client.
func (m *Manager) Acquire() (client docdb.Client, release func(), err error) {
	m.mu.RLock()
	if m.client == nil {
		m.mu.RUnlock()
		return nil, nil, errors.NewNotConnectedError()
	}

	var once sync.Once
	return m.client, func() { once.Do(m.mu.RUnlock) }, nil
}

// WithClient runs fn with the current client held open.
func (m *Manager) WithClient(fn func(client docdb.Client) error) error {
	client, release, err := m.Acquire()
	if err != nil {
		return err
	}
	defer release()

	return fn(client)
}

// Ping probes the current session.
func (m *Manager) Ping(ctx context.Context) error {
	return m.WithClient(func(client docdb.Client) error {
		return client.Ping(ctx)
	})
}

// closeLocked closes and forgets the held client and invalidates any dial in
// progress. m.mu must be held for writing.
func (m *Manager) closeLocked(ctx context.Context) error {
	m.generation++
	if m.client == nil {
		return nil
	}

	client := m.client
	m.client = nil
	m.descriptor = ""
	m.connectedAt = time.Time{}

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.disconnectTimeout)
	defer cancel()

	return client.Close(closeCtx)
}

func (m *Manager) discard(ctx context.Context, client docdb.Client) {
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.disconnectTimeout)
	defer cancel()

	if err := client.Close(closeCtx); err != nil {
		log.Warn().Err(err).Msg("failed to close interrupted mongodb session")
	}
}
