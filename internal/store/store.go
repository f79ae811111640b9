// Package store owns the single MongoDB connection shared by the rest of the
// process. It selects an endpoint (Atlas first, local fallback), retries a
// failed primary against the local endpoint within a bounded budget, and
// tracks connectivity as an explicit state machine alongside the driver's own
// heartbeat-reported state.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/domain"
)

// DefaultLocalURI is used when neither MONGO_ATLAS_URI nor MONGO_LOCAL_URI is
// configured.
const DefaultLocalURI = "mongodb://localhost:27017/boostweb"

const defaultDatabase = "boostweb"

type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateDisconnecting
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnecting:
		return "disconnecting"
	default:
		return "disconnected"
	}
}

type Options struct {
	AtlasURI string
	LocalURI string

	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration
	MinPoolSize            uint64
	MaxPoolSize            uint64

	// MaxRetries bounds how many times a failed primary connect may fall back
	// to the local endpoint before the error is surfaced.
	MaxRetries int
}

func (o Options) withDefaults() Options {
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = 10 * time.Second
	}
	if o.ServerSelectionTimeout <= 0 {
		o.ServerSelectionTimeout = 5 * time.Second
	}
	if o.SocketTimeout <= 0 {
		o.SocketTimeout = 45 * time.Second
	}
	if o.MinPoolSize == 0 {
		o.MinPoolSize = 2
	}
	if o.MaxPoolSize == 0 {
		o.MaxPoolSize = 10
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	return o
}

// Manager is the process-wide connection singleton. Only Manager methods
// mutate its state; request handlers read snapshots via Info and Active.
type Manager struct {
	opts Options
	log  *slog.Logger

	mu       sync.Mutex
	state    State
	endpoint string // selected, may carry credentials; mask before surfacing
	retries  int
	client   *mongo.Client

	// driverUp mirrors the driver's heartbeat view, which can flip to down
	// before Manager state catches up. Active requires both.
	driverUp atomic.Bool
}

func NewManager(opts Options, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		opts:     opts.withDefaults(),
		log:      log,
		endpoint: selectEndpoint(opts.AtlasURI, opts.LocalURI),
	}
}

// selectEndpoint applies the two-tier preference: the cloud endpoint when
// configured, then the local endpoint, then the hardcoded default.
func selectEndpoint(atlasURI, localURI string) string {
	if uri := strings.TrimSpace(atlasURI); uri != "" {
		return uri
	}
	if uri := strings.TrimSpace(localURI); uri != "" {
		return uri
	}
	return DefaultLocalURI
}

// Connect establishes the connection if one is not already active. A failure
// against the primary endpoint falls back to the local endpoint and retries,
// up to the configured budget; the last error is returned once the budget is
// spent or the local endpoint itself fails.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateConnected {
		return nil
	}
	return m.connectLocked(ctx)
}

func (m *Manager) connectLocked(ctx context.Context) error {
	m.state = StateConnecting
	m.log.Info("connecting to database", "endpoint", Mask(m.endpoint))

	client, err := m.dial(ctx)
	if err != nil {
		m.state = StateDisconnected

		if m.isPrimaryEndpoint() && m.retries < m.opts.MaxRetries {
			m.log.Warn("primary endpoint unreachable, falling back to local",
				"error", err, "attempt", m.retries+1)
			m.endpoint = selectEndpoint("", m.opts.LocalURI)
			m.retries++
			return m.connectLocked(ctx)
		}
		return fmt.Errorf("store.Connect: %s: %w", Mask(m.endpoint), err)
	}

	m.client = client
	m.state = StateConnected
	m.retries = 0
	m.driverUp.Store(true)
	m.log.Info("database connected", "endpoint", Mask(m.endpoint), "database", m.databaseName())
	return nil
}

func (m *Manager) dial(ctx context.Context) (*mongo.Client, error) {
	// The heartbeat monitor is bound at client construction, so repeat
	// connects against fresh clients never register duplicate callbacks.
	opts := options.Client().
		ApplyURI(m.endpoint).
		SetConnectTimeout(m.opts.ConnectTimeout).
		SetServerSelectionTimeout(m.opts.ServerSelectionTimeout).
		SetSocketTimeout(m.opts.SocketTimeout).
		SetMinPoolSize(m.opts.MinPoolSize).
		SetMaxPoolSize(m.opts.MaxPoolSize).
		SetServerMonitor(&event.ServerMonitor{
			ServerHeartbeatSucceeded: func(*event.ServerHeartbeatSucceededEvent) {
				m.handleHeartbeatSucceeded()
			},
			ServerHeartbeatFailed: func(e *event.ServerHeartbeatFailedEvent) {
				m.handleHeartbeatFailed(e.Failure)
			},
		})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, m.opts.ServerSelectionTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

func (m *Manager) isPrimaryEndpoint() bool {
	atlas := strings.TrimSpace(m.opts.AtlasURI)
	return atlas != "" && m.endpoint == atlas
}

func (m *Manager) handleHeartbeatSucceeded() {
	if !m.driverUp.Swap(true) {
		m.log.Info("database reconnected")
	}
}

func (m *Manager) handleHeartbeatFailed(err error) {
	if m.driverUp.Swap(false) {
		m.log.Warn("database connection lost", "error", err)
	}
}

// Disconnect releases the connection. It is idempotent and safe to call from
// the shutdown path regardless of connection state.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		m.state = StateDisconnected
		return nil
	}

	m.state = StateDisconnecting
	err := m.client.Disconnect(ctx)
	m.client = nil
	m.driverUp.Store(false)
	m.state = StateDisconnected

	if err != nil {
		return fmt.Errorf("store.Disconnect: %w", err)
	}
	m.log.Info("database disconnected")
	return nil
}

// Active reports whether the connection is usable. The manager's own state
// and the driver's heartbeat view can diverge during a network partition, so
// both are required.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateConnected && m.driverUp.Load()
}

// Database returns a handle on the configured database, or ErrNotConnected
// when the process is running in degraded mode.
func (m *Manager) Database() (*mongo.Database, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil || m.state != StateConnected {
		return nil, domain.ErrNotConnected
	}
	return m.client.Database(m.databaseName()), nil
}

// Info is a read-only connection snapshot. The connection string is always
// masked; raw credentials must never leave the manager.
type Info struct {
	Connected        bool   `json:"connected"`
	Database         string `json:"name"`
	Host             string `json:"host"`
	Port             string `json:"port"`
	ReadyState       int    `json:"readyState"`
	ConnectionString string `json:"connectionString"`
	Type             string `json:"type"`
}

func (m *Manager) Info() Info {
	m.mu.Lock()
	state := m.state
	endpoint := m.endpoint
	m.mu.Unlock()

	host, port, db := parseEndpoint(endpoint)
	return Info{
		Connected:        state == StateConnected && m.driverUp.Load(),
		Database:         db,
		Host:             host,
		Port:             port,
		ReadyState:       readyCode(state, m.driverUp.Load()),
		ConnectionString: Mask(endpoint),
		Type:             endpointType(endpoint),
	}
}

// readyCode follows the classic driver convention:
// 0 disconnected, 1 connected, 2 connecting, 3 disconnecting.
func readyCode(state State, driverUp bool) int {
	switch state {
	case StateConnecting:
		return 2
	case StateDisconnecting:
		return 3
	case StateConnected:
		if driverUp {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func endpointType(endpoint string) string {
	if strings.HasPrefix(endpoint, "mongodb+srv://") {
		return "atlas"
	}
	return "local"
}

func (m *Manager) databaseName() string {
	_, _, db := parseEndpoint(m.endpoint)
	return db
}

var credentialPattern = regexp.MustCompile(`//[^@/]+@`)

// Mask replaces the userinfo section of a connection string with the fixed
// placeholder, leaving credential-free endpoints untouched.
func Mask(endpoint string) string {
	return credentialPattern.ReplaceAllString(endpoint, "//***:***@")
}

// parseEndpoint extracts host, port and database name from a mongodb URI by
// hand: url.Parse chokes on multi-host seed lists, and the fields are only
// used for diagnostics.
func parseEndpoint(endpoint string) (host, port, db string) {
	db = defaultDatabase

	rest := endpoint
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		rest = rest[i+1:]
	}
	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		if rest[i] == '/' {
			path := rest[i+1:]
			if j := strings.Index(path, "?"); j >= 0 {
				path = path[:j]
			}
			if path != "" {
				db = path
			}
		}
		rest = rest[:i]
	}

	// First host of a seed list is representative enough for diagnostics.
	if i := strings.Index(rest, ","); i >= 0 {
		rest = rest[:i]
	}

	host = rest
	if i := strings.LastIndex(rest, ":"); i >= 0 {
		host, port = rest[:i], rest[i+1:]
	}
	return host, port, db
}
