package wifi

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wifiman-dev/wifiman-go/pkg/credstore"
	"github.com/wifiman-dev/wifiman-go/pkg/kdf"
	"github.com/wifiman-dev/wifiman-go/pkg/log"
)

// Connection defaults.
const (
	// DefaultTimeout is the default association polling budget in seconds.
	DefaultTimeout = 30

	// DefaultPollInterval is the pause between association polls.
	DefaultPollInterval = 1 * time.Second
)

// Connection errors.
var (
	ErrConnectTimeout    = errors.New("connection timeout")
	ErrConnectionFailed  = errors.New("connection failed")
	ErrAttemptInProgress = errors.New("connection attempt already in progress")
)

// SecretFunc supplies a passphrase for a network with no stored credential.
// It receives the network ID and the optional password hint from the
// connect request (an interactive prompt upstream, typically). Returning an
// error or an empty passphrase means no secret is obtainable.
type SecretFunc func(networkID, password string) (string, error)

// ConnectRequest describes one connection attempt.
type ConnectRequest struct {
	// NetworkID is the network to join. Required.
	NetworkID string

	// Password is an optional passphrase hint forwarded to SecretFunc.
	Password string

	// Hostname, when set, is configured on the interface before
	// associating.
	Hostname string

	// SecretFunc supplies a passphrase when the store has no record.
	// When nil, an unknown network fails immediately.
	SecretFunc SecretFunc

	// Timeout is the association polling budget in seconds (one poll per
	// second). DefaultTimeout when zero.
	Timeout int
}

// ConnectorConfig configures a Connector.
type ConnectorConfig struct {
	// Store resolves and caches derived secrets. Required.
	Store *credstore.Store

	// Interface is the network interface to drive. Required.
	Interface Interface

	// Logger receives attempt events. Defaults to log.NoopLogger.
	Logger log.Logger

	// PollInterval overrides DefaultPollInterval. Tests shrink it.
	PollInterval time.Duration
}

// Connector orchestrates connection attempts against one network
// interface. At most one attempt runs at a time.
type Connector struct {
	// attemptMu is the single-slot lock: held for the duration of one
	// Connect call.
	attemptMu sync.Mutex

	// mu guards state and callback.
	mu sync.RWMutex

	state         State
	onStateChange func(oldState, newState State)

	store        *credstore.Store
	iface        Interface
	logger       log.Logger
	pollInterval time.Duration
}

// NewConnector creates a Connector over the given store and interface.
func NewConnector(cfg ConnectorConfig) *Connector {
	if cfg.Logger == nil {
		cfg.Logger = log.NoopLogger{}
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	return &Connector{
		state:        StateIdle,
		store:        cfg.Store,
		iface:        cfg.Interface,
		logger:       cfg.Logger,
		pollInterval: cfg.PollInterval,
	}
}

// State returns the current attempt state.
func (c *Connector) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// OnStateChange sets a callback for state transitions. The callback runs
// on the connecting goroutine and must not call back into the Connector.
func (c *Connector) OnStateChange(fn func(oldState, newState State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStateChange = fn
}

// Connect resolves the network's secret and drives the interface to
// association, polling once per interval up to the request's timeout
// budget. On success it returns the live interface handle, still active.
//
// On every failure after the interface was activated it is deactivated,
// exactly once, before the error is returned. Errors are dispatchable with
// errors.Is: credstore.ErrUnknownNetwork, ErrConnectTimeout,
// ErrConnectionFailed (wrapping the cause), ErrAttemptInProgress, and
// kdf errors from a failed derivation.
func (c *Connector) Connect(ctx context.Context, req ConnectRequest) (Interface, error) {
	if req.NetworkID == "" {
		return nil, fmt.Errorf("%w: network ID must not be empty", kdf.ErrInvalidParameter)
	}
	timeout := req.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if timeout < 0 {
		return nil, fmt.Errorf("%w: timeout %d must be positive", kdf.ErrInvalidParameter, req.Timeout)
	}

	if !c.attemptMu.TryLock() {
		return nil, fmt.Errorf("%w: interface busy", ErrAttemptInProgress)
	}
	defer c.attemptMu.Unlock()

	attemptID := uuid.New().String()

	c.setState(attemptID, req.NetworkID, StateResolvingSecret, "")

	secret, err := c.resolveSecret(req)
	if err != nil {
		// No interface calls have happened yet; nothing to clean up.
		c.setState(attemptID, req.NetworkID, StateFailed, err.Error())
		return nil, err
	}

	c.setState(attemptID, req.NetworkID, StateAssociating, "")

	if err := c.iface.Activate(true); err != nil {
		return c.fail(attemptID, req.NetworkID, StateFailed,
			fmt.Errorf("%w: activating interface: %w", ErrConnectionFailed, err))
	}

	if c.iface.IsAssociated() {
		if c.iface.CurrentNetworkID() == req.NetworkID {
			// Already on the right network; no re-association.
			c.setState(attemptID, req.NetworkID, StateConnected, "already associated")
			return c.iface, nil
		}
		if err := c.iface.Disassociate(); err != nil {
			return c.fail(attemptID, req.NetworkID, StateFailed,
				fmt.Errorf("%w: leaving %q: %w", ErrConnectionFailed, c.iface.CurrentNetworkID(), err))
		}
	}

	if req.Hostname != "" {
		if err := c.iface.SetHostname(req.Hostname); err != nil {
			return c.fail(attemptID, req.NetworkID, StateFailed,
				fmt.Errorf("%w: setting hostname: %w", ErrConnectionFailed, err))
		}
	}

	if err := c.iface.Associate(req.NetworkID, secret); err != nil {
		return c.fail(attemptID, req.NetworkID, StateFailed,
			fmt.Errorf("%w: %w", ErrConnectionFailed, err))
	}

	for poll := 0; poll < timeout; poll++ {
		// Cancellation is checked at the top of every iteration and
		// still runs the deactivation cleanup.
		select {
		case <-ctx.Done():
			return c.fail(attemptID, req.NetworkID, StateFailed,
				fmt.Errorf("%w: %w", ErrConnectionFailed, ctx.Err()))
		default:
		}

		if c.iface.IsAssociated() {
			reason := "associated"
			if addr := c.iface.LocalAddr(); addr != nil {
				reason = "associated, addr " + addr.String()
			}
			c.setState(attemptID, req.NetworkID, StateConnected, reason)
			return c.iface, nil
		}

		select {
		case <-ctx.Done():
			return c.fail(attemptID, req.NetworkID, StateFailed,
				fmt.Errorf("%w: %w", ErrConnectionFailed, ctx.Err()))
		case <-time.After(c.pollInterval):
		}
	}

	return c.fail(attemptID, req.NetworkID, StateTimedOut,
		fmt.Errorf("%w: association did not complete within %d polls", ErrConnectTimeout, timeout))
}

// resolveSecret looks the secret up in the store, falling back to the
// request's SecretFunc to derive and cache one.
func (c *Connector) resolveSecret(req ConnectRequest) ([]byte, error) {
	secret, err := c.store.Get(req.NetworkID)
	if err == nil {
		return secret, nil
	}
	if !errors.Is(err, credstore.ErrUnknownNetwork) {
		// A genuine backend fault, not a cache miss.
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	if req.SecretFunc == nil {
		return nil, err
	}

	passphrase, cbErr := req.SecretFunc(req.NetworkID, req.Password)
	if cbErr != nil {
		return nil, fmt.Errorf("%w: secret callback for %q: %w", credstore.ErrUnknownNetwork, req.NetworkID, cbErr)
	}
	if passphrase == "" {
		return nil, fmt.Errorf("%w: no passphrase provided for %q", credstore.ErrUnknownNetwork, req.NetworkID)
	}

	if err := c.store.StoreSecret(req.NetworkID, passphrase); err != nil {
		return nil, err
	}
	return c.store.Get(req.NetworkID)
}

// fail deactivates the interface, records the terminal state and returns
// the error. The deactivation happens before the error is surfaced.
func (c *Connector) fail(attemptID, networkID string, terminal State, err error) (Interface, error) {
	if derr := c.iface.Activate(false); derr != nil {
		c.logger.Log(log.Event{
			Timestamp: time.Now(),
			AttemptID: attemptID,
			NetworkID: networkID,
			Category:  log.CategoryError,
			Error:     &log.ErrorEventData{Message: derr.Error(), Context: "deactivating interface"},
		})
	}

	c.setState(attemptID, networkID, terminal, err.Error())
	return nil, err
}

// setState records a state transition, emits the log event and invokes the
// state change callback outside the lock.
func (c *Connector) setState(attemptID, networkID string, newState State, reason string) {
	c.mu.Lock()
	oldState := c.state
	c.state = newState
	fn := c.onStateChange
	c.mu.Unlock()

	c.logger.Log(log.Event{
		Timestamp: time.Now(),
		AttemptID: attemptID,
		NetworkID: networkID,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			OldState: oldState.String(),
			NewState: newState.String(),
			Reason:   reason,
		},
	})

	if fn != nil && oldState != newState {
		fn(oldState, newState)
	}
}
