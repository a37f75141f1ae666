package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/internal/devshop"
	"github.com/angelmondragon/storefront/pkg/auth/session"
	"github.com/angelmondragon/storefront/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev},
		DevAPI: config.DevAPIConfig{
			JWTSecret:   "test-secret",
			JWTIssuer:   "storefront-test",
			SessionTTL:  time.Hour,
			CORSOrigins: []string{"http://localhost:3000"},
			Password:    config.PasswordConfig{ArgonMemoryKB: 64, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 8, ArgonKeyLen: 16},
		},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	cfg := testConfig()
	shop := devshop.New(cfg.DevAPI.Password)
	require.NoError(t, shop.Seed())
	sessions, err := session.NewMemoryManager(cfg.DevAPI.SessionTTL)
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(cfg, nil, shop, sessions, prometheus.NewRegistry()))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func send(t *testing.T, client *http.Client, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestSessionLifecycle(t *testing.T) {
	srv, client := newTestServer(t)

	resp, _ := send(t, client, http.MethodGet, srv.URL+"/me", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, raw := send(t, client, http.MethodPost, srv.URL+"/login", `{"username":"admin","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.JSONEq(t, `{"error":"Invalid username or password","code":"NOT_AUTHENTICATED"}`, string(raw))

	resp, raw = send(t, client, http.MethodPost, srv.URL+"/login", `{"username":"customer1","password":"password123"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var user struct {
		ID       int    `json:"id"`
		Username string `json:"username"`
		Address  string `json:"address"`
	}
	require.NoError(t, json.Unmarshal(raw, &user))
	require.Equal(t, "customer1", user.Username)
	require.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	resp, raw = send(t, client, http.MethodGet, srv.URL+"/me", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(raw), `"customer1"`)

	resp, _ = send(t, client, http.MethodDelete, srv.URL+"/logout", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = send(t, client, http.MethodGet, srv.URL+"/me", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRevokedTokenIsRejected(t *testing.T) {
	srv, client := newTestServer(t)

	resp, _ := send(t, client, http.MethodPost, srv.URL+"/login", `{"username":"admin","password":"password123"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var token string
	for _, c := range resp.Cookies() {
		if c.Name == "session" {
			token = c.Value
		}
	}
	require.NotEmpty(t, token)

	resp, _ = send(t, client, http.MethodDelete, srv.URL+"/logout", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/me", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	replay, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	replay.Body.Close()
	require.Equal(t, http.StatusUnauthorized, replay.StatusCode)
}

func TestCatalogEndpoints(t *testing.T) {
	srv, client := newTestServer(t)

	resp, raw := send(t, client, http.MethodGet, srv.URL+"/products?category=Tops&search=athletic", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var products []struct {
		ID    int     `json:"id"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	require.NoError(t, json.Unmarshal(raw, &products))
	require.Len(t, products, 1)
	require.Equal(t, 3, products[0].ID)
	require.Equal(t, 39.99, products[0].Price)

	resp, raw = send(t, client, http.MethodGet, srv.URL+"/categories", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(raw), `"T-Shirts"`)

	resp, _ = send(t, client, http.MethodGet, srv.URL+"/products/99", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = send(t, client, http.MethodGet, srv.URL+"/products/abc", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterSignsIn(t *testing.T) {
	srv, client := newTestServer(t)

	resp, raw := send(t, client, http.MethodPost, srv.URL+"/users", `{"username":"newbie","email":"newbie@example.com","password":"pw"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = send(t, client, http.MethodGet, srv.URL+"/me", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(raw), `"newbie"`)

	resp, raw = send(t, client, http.MethodPost, srv.URL+"/users", `{"username":"admin","email":"other@example.com","password":"pw"}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Contains(t, string(raw), "Username already taken")

	resp, _ = send(t, client, http.MethodPost, srv.URL+"/users", `{"username":"waytoolongusername","email":"x@example.com","password":"pw"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateUserOnlyOwnAccount(t *testing.T) {
	srv, client := newTestServer(t)

	resp, raw := send(t, client, http.MethodPost, srv.URL+"/login", `{"username":"customer1","password":"password123"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var user struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &user))

	resp, raw = send(t, client, http.MethodPatch, srv.URL+"/users/"+strconv.Itoa(user.ID), `{"address":"9 Elm St"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(raw), `"9 Elm St"`)

	resp, _ = send(t, client, http.MethodPatch, srv.URL+"/users/"+strconv.Itoa(user.ID+100), `{"address":"x"}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOrdersRequireSessionAndRecord(t *testing.T) {
	srv, client := newTestServer(t)

	order := `{"total_amount":59.98,"shipping_address":"1 Test Ave","items":[{"product_id":1,"quantity":2,"price_at_purchase":29.99,"size":"M","color":"White"}]}`
	resp, _ := send(t, client, http.MethodPost, srv.URL+"/orders", order)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = send(t, client, http.MethodPost, srv.URL+"/login", `{"username":"customer1","password":"password123"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := send(t, client, http.MethodPost, srv.URL+"/orders", order)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var created struct {
		ID          int     `json:"id"`
		Status      string  `json:"status"`
		TotalAmount float64 `json:"total_amount"`
	}
	require.NoError(t, json.Unmarshal(raw, &created))
	require.Equal(t, "pending", created.Status)
	require.Equal(t, 59.98, created.TotalAmount)

	resp, raw = send(t, client, http.MethodGet, srv.URL+"/orders", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &history))
	require.Len(t, history, 2)
	require.Equal(t, created.ID, history[0].ID)

	resp, _ = send(t, client, http.MethodPost, srv.URL+"/orders", `{"total_amount":1,"shipping_address":"x","items":[]}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsEndpointReportsRoutes(t *testing.T) {
	srv, client := newTestServer(t)

	send(t, client, http.MethodGet, srv.URL+"/products/1", "")
	resp, raw := send(t, client, http.MethodGet, srv.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, bytes.Contains(raw, []byte(`devapi_http_requests_total{method="GET",route="/products/{productId}",status="200"} 1`)), string(raw))
}

func TestCORSPreflight(t *testing.T) {
	srv, client := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/login", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestHealth(t *testing.T) {
	srv, client := newTestServer(t)
	resp, raw := send(t, client, http.MethodGet, srv.URL+"/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"status":"ok"}`, string(raw))
	require.Equal(t, config.AppEnvDev, resp.Header.Get("X-Storefront-Env"))
}
