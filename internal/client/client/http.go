package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/herbscan/internal/client/parser"
	"github.com/dmitrijs2005/herbscan/internal/common"
)

// maxResponseBytes caps how much of a response body is read. Catalog pages
// carry inline images, so the cap is generous.
const maxResponseBytes = 64 << 20

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Tokens     TokenSource
	HTTPClient *http.Client
}

// HTTPClient implements Client over the server's REST/JSON API.
type HTTPClient struct {
	baseURL    string
	timeout    time.Duration
	tokens     TokenSource
	httpClient *http.Client
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(opts Options) (*HTTPClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("base url required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}

	return &HTTPClient{baseURL: baseURL, timeout: timeout, tokens: opts.Tokens, httpClient: hc}, nil
}

type identifyRequest struct {
	ImageBase64 string `json:"image_base64"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
}

// Identify submits image for identification and returns the undecoded
// result payload.
func (c *HTTPClient) Identify(ctx context.Context, image []byte) (parser.Payload, error) {
	req := identifyRequest{ImageBase64: base64.StdEncoding.EncodeToString(image)}
	return c.doPayload(ctx, "identify", http.MethodPost, "/api/plants/identify", req)
}

func (c *HTTPClient) ListPlants(ctx context.Context, opts ListOptions) (parser.Payload, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	q := url.Values{}
	q.Set("skip", strconv.Itoa(max(opts.Skip, 0)))
	q.Set("limit", strconv.Itoa(limit))
	if s := strings.TrimSpace(opts.Search); s != "" {
		q.Set("search", s)
	}
	return c.doPayload(ctx, "list plants", http.MethodGet, "/api/plants?"+q.Encode(), nil)
}

func (c *HTTPClient) GetPlant(ctx context.Context, id string) (parser.Payload, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &TransportError{Op: "get plant", Err: ErrNotFound}
	}
	return c.doPayload(ctx, "get plant", http.MethodGet, "/api/plants/"+url.PathEscape(id), nil)
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) (AuthResult, error) {
	return c.auth(ctx, "register", "/api/auth/register", username, password)
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (AuthResult, error) {
	return c.auth(ctx, "login", "/api/auth/login", username, password)
}

func (c *HTTPClient) auth(ctx context.Context, op, path, username, password string) (AuthResult, error) {
	var resp authResponse
	if err := c.doJSON(ctx, op, http.MethodPost, path, credentialsRequest{Username: username, Password: password}, &resp); err != nil {
		return AuthResult{}, err
	}
	if resp.AccessToken == "" {
		return AuthResult{}, &TransportError{Op: op, Err: fmt.Errorf("%w: empty access token", common.ErrMalformedResponse)}
	}
	if resp.Username == "" {
		resp.Username = username
	}
	return AuthResult{Token: resp.AccessToken, Username: resp.Username}, nil
}

// Me returns the username the server associates with the current token.
func (c *HTTPClient) Me(ctx context.Context) (string, error) {
	var resp struct {
		Username string `json:"username"`
	}
	if err := c.doJSON(ctx, "me", http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return "", err
	}
	return resp.Username, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.doJSON(ctx, "ping", http.MethodGet, "/api", nil, nil)
}

func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) doPayload(ctx context.Context, op, method, path string, body any) (parser.Payload, error) {
	raw, err := c.do(ctx, op, method, path, body)
	if err != nil {
		return nil, err
	}
	p, err := parser.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, op, method, path string, body, out any) error {
	raw, err := c.do(ctx, op, method, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w: %v", op, common.ErrMalformedResponse, err)
	}
	return nil
}

// do performs one request and returns the body of a 2xx response.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, body any) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		rd = bytes.NewReader(b)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.mapError(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, c.mapError(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(op, resp.StatusCode, raw)
	}
	return raw, nil
}

// mapError turns a failure without a usable response into a TransportError.
// Cancellation by the caller is kept as is so it can be told apart from an
// unreachable server.
func (c *HTTPClient) mapError(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return &TransportError{Op: op, Err: err}
	}
	return &TransportError{Op: op, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
}
