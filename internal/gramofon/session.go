package gramofon

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/luisfcorreia/fon-gramofon-support/internal/logging"
)

// SessionManager obtains and caches one opaque session token per device
// address. Tokens are only ever written here: callers read them through
// Token and clear them with Invalidate, they never set them.
//
// Tokens live for one process run; there is no persistence. No token is ever
// shared across addresses.
type SessionManager struct {
	httpClient *http.Client
	creds      Credentials
	timeout    time.Duration
	nextID     atomic.Int64

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// sessionEntry holds the authentication state of one address. The entry
// mutex serializes logins per address: a second login for an address already
// mid-login waits for the first and reuses its token instead of racing it.
type sessionEntry struct {
	mu    sync.Mutex
	token string
}

// NewSessionManager creates a manager that logs in with the given credentials
func NewSessionManager(httpClient *http.Client, creds Credentials, timeout time.Duration) *SessionManager {
	if creds.Username == "" && creds.Password == "" {
		creds = DefaultCredentials()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &SessionManager{
		httpClient: httpClient,
		creds:      creds,
		timeout:    timeout,
		sessions:   make(map[string]*sessionEntry),
	}
}

// SetTimeout sets the timeout applied to login calls whose context carries no
// deadline
func (m *SessionManager) SetTimeout(timeout time.Duration) {
	m.timeout = timeout
}

// entry returns the session entry for an address, creating it if needed
func (m *SessionManager) entry(address string) *sessionEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[address]
	if !ok {
		e = &sessionEntry{}
		m.sessions[address] = e
	}
	return e
}

// Token returns the cached session token for an address, performing a login
// first if there is none
func (m *SessionManager) Token(ctx context.Context, address string) (string, error) {
	e := m.entry(address)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.token != "" {
		return e.token, nil
	}
	return m.loginLocked(ctx, address, e)
}

// Login forces a fresh login for an address, replacing any cached token
func (m *SessionManager) Login(ctx context.Context, address string) (string, error) {
	e := m.entry(address)
	e.mu.Lock()
	defer e.mu.Unlock()
	return m.loginLocked(ctx, address, e)
}

// loginLocked performs the login RPC. Caller holds the entry mutex.
func (m *SessionManager) loginLocked(ctx context.Context, address string, e *sessionEntry) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	params := Params{}.
		Set("username", m.creds.Username).
		Set("password", m.creds.Password)

	id := m.nextID.Add(1)
	payload, err := postCall(ctx, m.httpClient, address, PlaceholderSession, id,
		ModuleSession, MethodLogin, params)
	if err != nil {
		// A device-reported failure on the login call means the
		// credentials were rejected; transport and protocol failures
		// keep their own classification.
		if IsDeviceError(err) || IsSessionExpired(err) {
			logging.LogSession(address, "login_rejected")
			return "", NewAuthError(address, "login rejected by device")
		}
		return "", err
	}

	sid := payload.Get("sid").String()
	if sid == "" {
		logging.LogSession(address, "login_no_sid")
		return "", NewAuthError(address, "login response contained no session id")
	}

	e.token = sid
	logging.LogSession(address, "login_ok")
	return sid, nil
}

// Invalidate clears the cached token for an address, forcing the next call
// to log in again
func (m *SessionManager) Invalidate(address string) {
	e := m.entry(address)
	e.mu.Lock()
	e.token = ""
	e.mu.Unlock()
}

// Peek returns the cached token for an address without any network activity.
// Empty means unauthenticated (or invalidated).
func (m *SessionManager) Peek(address string) string {
	e := m.entry(address)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.token
}
