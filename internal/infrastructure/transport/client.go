// Package transport wraps outbound requests to the marketplace API: it
// attaches the stored bearer credential to everything except authentication
// endpoints, purges the credential on any unauthorized response, and
// classifies transport failures into the domain error taxonomy.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/internhub/portal-client/internal/core/domain"
	"github.com/internhub/portal-client/internal/core/ports"
)

// Requests whose path contains this prefix are never decorated with a stale
// credential.
const authPathPrefix = "/auth/"

const defaultTimeout = 30 * time.Second

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. http://localhost:8080/api.
	BaseURL string
	// Store is where the bearer credential lives.
	Store ports.KeyValueStore
	// OnUnauthorized, when set, runs after a 401 has purged the stored
	// credential. The session manager registers its ForceLogout here.
	OnUnauthorized func()
	// Timeout bounds each request. Defaults to 30s.
	Timeout time.Duration
	// HTTPClient overrides the underlying client; mainly for tests.
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client is a JSON-over-HTTP client rooted at a base URL.
type Client struct {
	base           *url.URL
	httpc          *http.Client
	store          ports.KeyValueStore
	onUnauthorized func()
	log            zerolog.Logger
}

// New validates the base URL and builds a Client.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, domain.WrapError(domain.CodeRequestSetup, "invalid API base URL", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, domain.NewError(domain.CodeRequestSetup, "API base URL must be absolute: "+opts.BaseURL)
	}

	httpc := opts.HTTPClient
	if httpc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpc = &http.Client{Timeout: timeout}
	}

	return &Client{
		base:           base,
		httpc:          httpc,
		store:          opts.Store,
		onUnauthorized: opts.OnUnauthorized,
		log:            opts.Logger.With().Str("component", "transport").Logger(),
	}, nil
}

// Get issues a GET with optional query parameters, decoding into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with a JSON body, decoding into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT. Both query and body may be nil; the API uses query
// parameters for status toggles.
func (c *Client) Put(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPut, path, query, body, out)
}

// Delete issues a DELETE, decoding into out when provided.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := *c.base
	target.Path = c.base.Path + path
	if query != nil {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return domain.WrapError(domain.CodeRequestSetup, "error setting up the request", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return domain.WrapError(domain.CodeRequestSetup, "error setting up the request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.attachCredential(req, path)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return domain.WrapError(domain.CodeNoResponse, "no response from server", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.WrapError(domain.CodeNoResponse, "no response from server", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized(method, path)
		return domain.NewError(domain.CodeInvalidCredentials, serverMessage(raw, "unauthorized"))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return domain.NewError(domain.CodeServerRejected, serverMessage(raw, http.StatusText(resp.StatusCode)))
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return domain.WrapError(domain.CodeMalformedResponse, "invalid response from server", err)
		}
	}
	return nil
}

// attachCredential sets the Authorization header unless the request targets
// an authentication endpoint.
func (c *Client) attachCredential(req *http.Request, path string) {
	if strings.Contains(path, authPathPrefix) {
		return
	}
	cred, ok, err := c.store.Get(ports.StorageKeyCredential)
	if err != nil {
		c.log.Warn().Err(err).Msg("credential read failed, sending request anonymously")
		return
	}
	if ok && len(cred) > 0 {
		req.Header.Set("Authorization", "Bearer "+string(cred))
	}
}

// handleUnauthorized purges the persisted credential, regardless of which
// endpoint was called, and notifies the hook.
func (c *Client) handleUnauthorized(method, path string) {
	if err := c.store.Delete(ports.StorageKeyCredential); err != nil {
		c.log.Warn().Err(err).Msg("failed to purge rejected credential")
	}
	c.log.Info().Str("method", method).Str("path", path).Msg("credential rejected by server")
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

// errorBody is the server's error envelope. Some endpoints use "error",
// others "message".
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// serverMessage extracts the server-supplied error text, falling back when
// the body is empty or not JSON.
func serverMessage(raw []byte, fallback string) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return fallback
}
