package robot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseSize = 1 << 20

// Credentials are sent to /login and /register.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Identity is the user the service reports after login or registration.
type Identity struct {
	Username string `json:"username"`
}

// User is one entry of GET /users.
type User struct {
	Username string `json:"username"`
}

// Client talks JSON over HTTP to the robot controller service.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.http = h
	}
}

// WithTimeout bounds every request made by the client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.http = &http.Client{Timeout: d, Transport: c.http.Transport}
	}
}

// NewClient creates a client for the service at baseURL, e.g.
// "http://172.20.10.7:5001".
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("server url %q must be http(s)://host:port", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login checks credentials against the service.
func (c *Client) Login(ctx context.Context, creds Credentials) (Identity, error) {
	var id Identity
	if err := c.do(ctx, http.MethodPost, "/login", creds, &id); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// Register creates an account with the given credentials.
func (c *Client) Register(ctx context.Context, creds Credentials) (Identity, error) {
	var id Identity
	if err := c.do(ctx, http.MethodPost, "/register", creds, &id); err != nil {
		return Identity{}, err
	}
	if id.Username == "" {
		id.Username = creds.Username
	}
	return id, nil
}

// Logout ends the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", struct{}{}, nil)
}

// Users lists registered operators.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Motion reads the current pitch and velocity.
func (c *Client) Motion(ctx context.Context) (Motion, error) {
	var m Motion
	if err := c.do(ctx, http.MethodGet, "/data", nil, &m); err != nil {
		return Motion{}, err
	}
	return m, nil
}

// Battery reads the current charge and power draw.
func (c *Client) Battery(ctx context.Context) (Battery, error) {
	var b Battery
	if err := c.do(ctx, http.MethodGet, "/battery", nil, &b); err != nil {
		return Battery{}, err
	}
	return b, nil
}

// Parameters reads the controller's parameter store. The result holds
// whatever names the service returned; see ParameterSet.Normalize.
func (c *Client) Parameters(ctx context.Context) (ParameterSet, error) {
	var raw map[string]float64
	if err := c.do(ctx, http.MethodGet, "/get_variables", nil, &raw); err != nil {
		return nil, err
	}

	set := make(ParameterSet, len(raw))
	for name, v := range raw {
		set[ParameterName(name)] = v
	}
	return set, nil
}

type setVariableRequest struct {
	Variable ParameterName `json:"variable"`
	Value    *float64      `json:"value"`
}

// SetParameter writes one parameter. Non-finite values are sent as null.
func (c *Client) SetParameter(ctx context.Context, name ParameterName, value float64) error {
	req := setVariableRequest{Variable: name}
	if !math.IsNaN(value) && !math.IsInf(value, 0) {
		req.Value = &value
	}
	return c.do(ctx, http.MethodPost, "/set_variable", req, nil)
}

// Move sends a drive or mode command.
func (c *Client) Move(ctx context.Context, cmd Command) error {
	return c.do(ctx, http.MethodPost, "/move", map[string]Command{"command": cmd}, nil)
}

// Color sets the indicator color.
func (c *Client) Color(ctx context.Context, color Color) error {
	return c.do(ctx, http.MethodPost, "/color", map[string]Color{"color": color}, nil)
}

// ResetBattery resets the controller's charge estimate.
func (c *Client) ResetBattery(ctx context.Context, action BatteryAction) error {
	return c.do(ctx, http.MethodPost, "/reset_battery", map[string]BatteryAction{"action": action}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(method, path, resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%s %s: empty response", method, path)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
