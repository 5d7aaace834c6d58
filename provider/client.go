package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-qcgrader/internal/logging"
)

// AccessTokenHeader carries the session token on authenticated requests.
const AccessTokenHeader = "X-Access-Token"

// Session is the result of a successful login.
type Session struct {
	AccessToken string    `json:"id"`
	UserID      string    `json:"userId"`
	TTL         int       `json:"ttl"`
	Created     time.Time `json:"created"`
}

// Client is a thin JSON client for the service REST API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger

	mu          sync.RWMutex
	accessToken string
}

// NewClient returns a client for baseURL. A nil httpClient uses a client with
// a 30 second timeout.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logging.OrDiscard(logger),
	}
}

// Login exchanges an API token for a session and keeps its access token for
// later requests.
func (c *Client) Login(ctx context.Context, apiToken string) (Session, error) {
	var session Session
	body := map[string]string{"apiToken": apiToken}
	if err := c.do(ctx, http.MethodPost, "/users/loginWithToken", body, &session); err != nil {
		return Session{}, err
	}
	if session.AccessToken == "" {
		return Session{}, goerrors.Wrap(ErrUnauthorized, goerrors.CategoryAuth, "login returned no access token")
	}

	c.mu.Lock()
	c.accessToken = session.AccessToken
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "logged in", "user_id", session.UserID)
	return session, nil
}

// Get decodes the JSON body of GET path into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "cannot encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "cannot build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.accessToken != "" {
		req.Header.Set(AccessTokenHeader, c.accessToken)
	}
	c.mu.RUnlock()

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, method+" "+path)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return statusError(method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "cannot decode "+method+" "+path+" response")
	}
	return nil
}
