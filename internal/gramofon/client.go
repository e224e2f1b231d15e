package gramofon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tidwall/gjson"

	"github.com/luisfcorreia/fon-gramofon-support/internal/logging"
)

const (
	// DefaultUsername is the login username hard-coded by the Gramofon
	// firmware. Every device ships with the same pair and there is no way
	// to change it; see the package documentation.
	DefaultUsername = "admin"

	// DefaultPassword is the login password hard-coded by the firmware
	DefaultPassword = "admin"

	// PlaceholderSession is the session token used for the initial,
	// unauthenticated login call: 32 ASCII zeros.
	PlaceholderSession = "00000000000000000000000000000000"

	// DefaultTimeout is the default per-call timeout
	DefaultTimeout = 10 * time.Second

	// DefaultScanSettle is how long the firmware needs between triggering
	// ssid_scan and the results being available via get_ssids
	DefaultScanSettle = 2 * time.Second
)

// Credentials is the username/password pair presented at login
type Credentials struct {
	Username string
	Password string
}

// DefaultCredentials returns the firmware's fixed credential pair
func DefaultCredentials() Credentials {
	return Credentials{Username: DefaultUsername, Password: DefaultPassword}
}

// Client issues session-authenticated JSON-RPC calls against Gramofon
// devices. One Client serves any number of addresses; all per-device state
// (session tokens) lives in its SessionManager, keyed by address.
//
// A Client is safe for concurrent use by multiple goroutines.
type Client struct {
	httpClient *http.Client
	sessions   *SessionManager
	timeout    time.Duration
	scanSettle time.Duration
	nextID     atomic.Int64
}

// NewClient creates a client that authenticates with the given credentials
func NewClient(creds Credentials) *Client {
	hc := &http.Client{}
	c := &Client{
		httpClient: hc,
		timeout:    DefaultTimeout,
		scanSettle: DefaultScanSettle,
	}
	c.sessions = NewSessionManager(hc, creds, DefaultTimeout)
	return c
}

// NewDefaultClient creates a client using the firmware's fixed credentials
func NewDefaultClient() *Client {
	return NewClient(DefaultCredentials())
}

// Sessions returns the session manager holding this client's cached tokens
func (c *Client) Sessions() *SessionManager {
	return c.sessions
}

// SetTimeout sets the default per-call timeout, applied whenever the caller's
// context carries no deadline of its own
func (c *Client) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
	c.sessions.SetTimeout(timeout)
}

// SetScanSettle adjusts the wait between triggering a WiFi scan and fetching
// its results
func (c *Client) SetScanSettle(d time.Duration) {
	c.scanSettle = d
}

// Call sends one logical JSON-RPC call to the device at address.
//
// The call is made with the cached session token for that address, logging in
// first if there is none. If the device answers with the session-expiry code,
// the token is invalidated, one re-login is performed and the original call
// is retried exactly once with the new token. Any failure of the retry,
// including a second expiry, is surfaced; there is never a third attempt, so
// the worst case is bounded at two requests plus one login.
//
// All failures come back as *CallError with a classified FailureKind.
func (c *Client) Call(ctx context.Context, address, module, method string, params Params) (Payload, error) {
	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	token, err := c.sessions.Token(ctx, address)
	if err != nil {
		return Payload{}, err
	}

	logging.LogCall(address, module, method, 1)
	start := time.Now()
	payload, err := c.do(ctx, address, token, module, method, params)
	logging.LogCallResult(address, module, method, time.Since(start), err)
	if err == nil || !IsSessionExpired(err) {
		return payload, err
	}

	// Expiry recovery: invalidate, re-login once, retry the original call
	// once with the fresh token.
	c.sessions.Invalidate(address)
	logging.LogSession(address, "expired")

	token, err = c.sessions.Login(ctx, address)
	if err != nil {
		return Payload{}, err
	}

	logging.LogCall(address, module, method, 2)
	start = time.Now()
	payload, err = c.do(ctx, address, token, module, method, params)
	logging.LogCallResult(address, module, method, time.Since(start), err)
	return payload, err
}

// withDeadline applies the client's default timeout when the caller did not
// bring a deadline. Every network call runs under some deadline.
func (c *Client) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// do performs a single request/response exchange, no retries
func (c *Client) do(ctx context.Context, address, token, module, method string, params Params) (Payload, error) {
	id := c.nextID.Add(1)
	return postCall(ctx, c.httpClient, address, token, id, module, method, params)
}

// rpcRequest is the JSON-RPC 2.0 envelope the firmware expects: the method is
// always "call" and the positional params carry [module, method, paramsObject].
type rpcRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      int64             `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

// postCall sends one JSON-RPC request and classifies the response. Shared by
// Client and SessionManager so login goes over the exact same wire path.
func postCall(ctx context.Context, hc *http.Client, address, token string, id int64, module, method string, params Params) (Payload, error) {
	paramsJSON, err := params.String()
	if err != nil {
		return Payload{}, NewProtocolError(address, "invalid params", err)
	}

	moduleJSON, err := json.Marshal(module)
	if err != nil {
		return Payload{}, NewProtocolError(address, "invalid module name", err)
	}
	methodJSON, err := json.Marshal(method)
	if err != nil {
		return Payload{}, NewProtocolError(address, "invalid method name", err)
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      id,
		Method:  "call",
		Params:  []json.RawMessage{moduleJSON, methodJSON, json.RawMessage(paramsJSON)},
	})
	if err != nil {
		return Payload{}, NewProtocolError(address, "failed to encode request", err)
	}

	url := fmt.Sprintf("http://%s/api/%s", address, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Payload{}, NewProtocolError(address, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return Payload{}, ClassifyNetworkError(err, address)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Payload{}, NewProtocolError(address,
			fmt.Sprintf("unexpected HTTP status %d", resp.StatusCode), nil)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Payload{}, ClassifyNetworkError(err, address)
	}

	return classifyResponse(address, module, method, id, raw)
}

// classifyResponse turns a raw response body into a Payload or a classified
// CallError per the firmware's result conventions.
func classifyResponse(address, module, method string, id int64, raw []byte) (Payload, error) {
	if !gjson.ValidBytes(raw) {
		return Payload{}, NewProtocolError(address, "response is not valid JSON", nil)
	}
	doc := gjson.ParseBytes(raw)

	if errField := doc.Get("error"); errField.Exists() {
		code := int(errField.Get("code").Int())
		message := errField.Get("message").String()
		if code == CodeSessionExpired {
			return Payload{}, NewSessionExpiredError(address, module, method)
		}
		return Payload{}, NewDeviceError(address, module, method, code, message)
	}

	if respID := doc.Get("id"); respID.Exists() && respID.Int() != id {
		return Payload{}, NewProtocolError(address,
			fmt.Sprintf("response id %d does not match request id %d", respID.Int(), id), nil)
	}

	result := doc.Get("result")
	if !result.Exists() || !result.IsArray() {
		return Payload{}, NewProtocolError(address, "response has no result array", nil)
	}

	elems := result.Array()
	if len(elems) == 0 {
		return Payload{}, NewProtocolError(address, "result array is empty", nil)
	}

	if status := int(elems[0].Int()); status != 0 {
		return Payload{}, NewDeviceError(address, module, method, status,
			fmt.Sprintf("operation failed with status %d", status))
	}

	if len(elems) > 1 {
		return Payload{raw: elems[1].Raw}, nil
	}
	return Payload{}, nil
}
