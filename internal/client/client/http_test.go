package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/herbscan/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, h http.HandlerFunc, token string) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(Options{BaseURL: srv.URL + "/", Timeout: 2 * time.Second, Tokens: staticToken(token)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewHTTPClient_RequiresBaseURL(t *testing.T) {
	_, err := NewHTTPClient(Options{BaseURL: "  "})
	require.Error(t, err)
}

func TestIdentify_SendsBase64AndBearer(t *testing.T) {
	image := []byte{0xff, 0xd8, 0xff, 0x00}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/plants/identify", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, base64.StdEncoding.EncodeToString(image), req["image_base64"])

		writeJSON(w, http.StatusOK, map[string]any{
			"plant_name":        "Tulsi",
			"confidence":        "High",
			"matches_database":  true,
			"database_plant_id": "p1",
		})
	}, "tok-1")

	p, err := c.Identify(context.Background(), image)
	require.NoError(t, err)
	assert.Equal(t, "Tulsi", p["plant_name"])
	assert.Equal(t, true, p["matches_database"])
}

func TestIdentify_AnonymousHasNoAuthorization(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"plant_name": "Neem"})
	}, "")

	_, err := c.Identify(context.Background(), []byte{1})
	require.NoError(t, err)
}

func TestIdentify_ServerDetailIsKept(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"detail": "Failed to identify plant: quota exceeded"})
	}, "tok")

	_, err := c.Identify(context.Background(), []byte{1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Equal(t, "Failed to identify plant: quota exceeded", DetailOf(err))

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusInternalServerError, te.Status)
}

func TestIdentify_NonObjectBodyIsMalformed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `["Tulsi"]`)
	}, "tok")

	_, err := c.Identify(context.Background(), []byte{1})
	require.ErrorIs(t, err, common.ErrMalformedResponse)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusBadGateway, ErrUnavailable},
		{http.StatusServiceUnavailable, ErrUnavailable},
		{http.StatusGatewayTimeout, ErrUnavailable},
		{http.StatusBadRequest, ErrRequestFailed},
		{http.StatusInternalServerError, ErrRequestFailed},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}, "")

			_, err := c.GetPlant(context.Background(), "p1")
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, DetailOf(err))
		})
	}
}

func TestUnreachableServerIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewHTTPClient(Options{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	err = c.Ping(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestTimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c, err := NewHTTPClient(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.Identify(context.Background(), []byte{1})
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCallerCancellationIsNotUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	}, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Ping(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestListPlants_Query(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/plants", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "tul si", q.Get("search"))
		assert.Equal(t, "10", q.Get("skip"))
		assert.Equal(t, "100", q.Get("limit"))
		writeJSON(w, http.StatusOK, map[string]any{"plants": []any{}, "total": 0, "skip": 10, "limit": 100})
	}, "")

	p, err := c.ListPlants(context.Background(), ListOptions{Search: " tul si ", Skip: 10, Limit: 500})
	require.NoError(t, err)
	assert.Contains(t, p, "plants")
}

func TestListPlants_Defaults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.False(t, q.Has("search"))
		assert.Equal(t, "0", q.Get("skip"))
		assert.Equal(t, "50", q.Get("limit"))
		writeJSON(w, http.StatusOK, map[string]any{"plants": []any{}})
	}, "")

	_, err := c.ListPlants(context.Background(), ListOptions{Skip: -3})
	require.NoError(t, err)
}

func TestGetPlant_EscapesID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/plants/a%2Fb", r.URL.EscapedPath())
		writeJSON(w, http.StatusOK, map[string]any{"_id": "a/b"})
	}, "")

	p, err := c.GetPlant(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "a/b", p["_id"])
}

func TestGetPlant_EmptyID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}, "")

	_, err := c.GetPlant(context.Background(), " ")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoginAndRegister(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		switch r.URL.Path {
		case "/api/auth/login":
			if req.Password != "right" {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid credentials"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"access_token": "jwt-1", "token_type": "bearer", "username": req.Username})
		case "/api/auth/register":
			writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "Username already exists"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}, "")
	ctx := context.Background()

	res, err := c.Login(ctx, "asha", "right")
	require.NoError(t, err)
	assert.Equal(t, AuthResult{Token: "jwt-1", Username: "asha"}, res)

	_, err = c.Login(ctx, "asha", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Invalid credentials", DetailOf(err))

	_, err = c.Register(ctx, "asha", "pw")
	require.ErrorIs(t, err, ErrRequestFailed)
	assert.Equal(t, "Username already exists", DetailOf(err))
}

func TestLogin_EmptyTokenIsMalformed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"username": "asha"})
	}, "")

	_, err := c.Login(context.Background(), "asha", "pw")
	require.ErrorIs(t, err, common.ErrMalformedResponse)
}

func TestMe(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		assert.Equal(t, "Bearer jwt-1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"username": "asha", "user_id": "u1"})
	}, "jwt-1")

	name, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "asha", name)
}

func TestDetail_ValidationList(t *testing.T) {
	body := []byte(`{"detail":[{"loc":["body","image_base64"],"msg":"field required"},{"msg":"value is not a string"}]}`)
	assert.Equal(t, "field required; value is not a string", detail(body))
	assert.Empty(t, detail([]byte(`not json`)))
	assert.Empty(t, detail([]byte(`{"detail": 42}`)))
}

func TestTransportError_Message(t *testing.T) {
	err := &TransportError{Op: "identify", Status: 500, Detail: "boom", Err: ErrRequestFailed}
	assert.Equal(t, "identify: status 500: boom: request failed", err.Error())
}
