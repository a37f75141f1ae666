package shopapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/storage"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestClient(rt roundTripFunc) *Client {
	return NewClient(WithBaseURL("http://shop.test/"), WithHTTPClient(&http.Client{Transport: rt}))
}

func TestCreateOrderRequest(t *testing.T) {
	var captured *http.Request
	var payload map[string]any
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		captured = req
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		return jsonResponse(http.StatusCreated, `{"id":7,"status":"pending","total_amount":20.0,"shipping_address":"123 Main St","items":[{"product_id":1,"quantity":2,"price_at_purchase":10}]}`), nil
	})

	order, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		TotalAmount:     20,
		ShippingAddress: "123 Main St",
		Items:           []OrderItemRequest{{ProductID: 1, Quantity: 2, PriceAtPurchase: 10, Size: "M", Color: "Red"}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if captured.Method != http.MethodPost || captured.URL.String() != "http://shop.test/orders" {
		t.Fatalf("unexpected request %s %s", captured.Method, captured.URL)
	}
	if _, err := uuid.Parse(captured.Header.Get(RequestIDHeader)); err != nil {
		t.Fatalf("expected uuid request id, got %q", captured.Header.Get(RequestIDHeader))
	}
	if captured.Header.Get("Content-Type") != "application/json" {
		t.Fatalf("missing content type")
	}
	if payload["total_amount"] != 20.0 || payload["shipping_address"] != "123 Main St" {
		t.Fatalf("unexpected payload %v", payload)
	}
	items := payload["items"].([]any)
	first := items[0].(map[string]any)
	if first["product_id"] != 1.0 || first["quantity"] != 2.0 || first["price_at_purchase"] != 10.0 {
		t.Fatalf("unexpected item payload %v", first)
	}
	if order.ID != 7 || !order.TotalAmount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected order %+v", order)
	}
}

func TestProductsQueryOmitsEmptyFilters(t *testing.T) {
	var rawQuery string
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		rawQuery = req.URL.RawQuery
		return jsonResponse(http.StatusOK, `[{"id":1,"name":"Tee","price":19.99,"available_sizes":"[\"S\",\"M\"]","category":["Tops"]}]`), nil
	})

	products, err := client.Products(context.Background(), ProductQuery{Category: "Tops", Search: " te "})
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if rawQuery != "category=Tops&search=te" {
		t.Fatalf("unexpected query %q", rawQuery)
	}
	if len(products) != 1 || products[0].Price.String() != "19.99" {
		t.Fatalf("unexpected products %+v", products)
	}
	if len(products[0].AvailableSizes) != 2 || !products[0].Category.Contains("Tops") {
		t.Fatalf("list fields not decoded: %+v", products[0])
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		code    pkgerrors.Code
		message string
	}{
		{"error field", http.StatusBadRequest, `{"error":"Username already taken"}`, pkgerrors.CodeAPI, "Username already taken"},
		{"message field", http.StatusConflict, `{"message":"conflict"}`, pkgerrors.CodeAPI, "conflict"},
		{"fallback", http.StatusInternalServerError, `<html>oops</html>`, pkgerrors.CodeAPI, "Login failed"},
		{"unauthorized", http.StatusUnauthorized, `{"error":"Invalid username or password"}`, pkgerrors.CodeNotAuthenticated, "Invalid username or password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(func(*http.Request) (*http.Response, error) {
				return jsonResponse(tc.status, tc.body), nil
			})
			_, err := client.Login(context.Background(), LoginRequest{Username: "u", Password: "p"})
			typed := pkgerrors.As(err)
			if typed == nil {
				t.Fatalf("expected typed error, got %v", err)
			}
			if typed.Code() != tc.code || typed.Message() != tc.message {
				t.Fatalf("unexpected error %v", typed)
			}
			if pkgerrors.Dump(err).HTTPStatus != tc.status {
				t.Fatalf("expected status %d in details", tc.status)
			}
		})
	}
}

func TestProductNotFound(t *testing.T) {
	client := newTestClient(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{"error":"Product not found"}`), nil
	})
	_, err := client.Product(context.Background(), 99)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := client.Product(context.Background(), 0); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for id 0, got %v", err)
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	reg := prometheus.NewRegistry()
	apiMetrics := metrics.NewAPIMetrics(reg)
	client := NewClient(
		WithBaseURL("http://shop.test"),
		WithHTTPClient(&http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})}),
		WithMetrics(apiMetrics),
	)

	err := client.Logout(context.Background())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	got, err := testutil.GatherAndCount(reg, "storefront_api_requests_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected one counted request series, got %d", got)
	}
}

func TestSessionCookieRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/", HttpOnly: true})
			_, _ = io.WriteString(w, `{"id":1,"username":"customer1"}`)
		case "/me":
			cookie, err := r.Cookie("session")
			if err != nil || cookie.Value != "abc" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, `{"error":"Not logged in"}`)
				return
			}
			_, _ = io.WriteString(w, `{"id":1,"username":"customer1"}`)
		case "/logout":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "", Path: "/", MaxAge: -1})
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer server.Close()

	ctx := context.Background()
	store := storage.NewMemory()
	jar, err := NewPersistentJar(ctx, server.URL, store, nil)
	if err != nil {
		t.Fatalf("new jar: %v", err)
	}
	client := NewClient(WithBaseURL(server.URL), WithCookieJar(jar))

	if _, err := client.Me(ctx); !pkgerrors.IsCode(err, pkgerrors.CodeNotAuthenticated) {
		t.Fatalf("expected unauthenticated before login, got %v", err)
	}
	if _, err := client.Login(ctx, LoginRequest{Username: "customer1", Password: "password123"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := store.Get(ctx, SessionStorageKey); err != nil {
		t.Fatalf("expected session cookie persisted: %v", err)
	}

	restored, err := NewPersistentJar(ctx, server.URL, store, nil)
	if err != nil {
		t.Fatalf("restore jar: %v", err)
	}
	second := NewClient(WithBaseURL(server.URL), WithCookieJar(restored))
	user, err := second.Me(ctx)
	if err != nil {
		t.Fatalf("me with restored session: %v", err)
	}
	if user.Username != "customer1" {
		t.Fatalf("unexpected user %+v", user)
	}

	if err := second.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := store.Get(ctx, SessionStorageKey); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected saved cookies cleared after logout, got %v", err)
	}
}

func TestAcceptedResponseWithUnreadableBody(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"not json", "created"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var meCalls int
			client := newTestClient(func(req *http.Request) (*http.Response, error) {
				switch req.URL.Path {
				case "/me":
					meCalls++
					return jsonResponse(http.StatusOK, `{"id":7,"username":"customer1"}`), nil
				case "/orders":
					if req.Method == http.MethodPost {
						return jsonResponse(http.StatusCreated, tc.body), nil
					}
				}
				return jsonResponse(http.StatusOK, tc.body), nil
			})
			ctx := context.Background()

			order, err := client.CreateOrder(ctx, CreateOrderRequest{ShippingAddress: "1 Main St"})
			if err != nil || order != nil {
				t.Fatalf("expected accepted order without details, got order=%+v err=%v", order, err)
			}

			user, err := client.Login(ctx, LoginRequest{Username: "customer1", Password: "password123"})
			if err != nil {
				t.Fatalf("login: %v", err)
			}
			if user.ID != 7 || meCalls != 1 {
				t.Fatalf("expected user re-read from /me, got %+v after %d calls", user, meCalls)
			}
			if _, err := client.UpdateUser(ctx, 7, UpdateUserRequest{}); err != nil {
				t.Fatalf("update user: %v", err)
			}
			if meCalls != 2 {
				t.Fatalf("expected second /me read, got %d", meCalls)
			}

			_, err = client.Orders(ctx)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeAPI {
				t.Fatalf("expected api error for unreadable order history, got %v", err)
			}
			if typed.Message() != "Unexpected response from the storefront api" {
				t.Fatalf("unexpected message %q", typed.Message())
			}
		})
	}
}

func TestWithHTTPClientLeavesCallerClientUntouched(t *testing.T) {
	callerClient := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNoContent, ""), nil
	})}
	jar, err := NewPersistentJar(context.Background(), "http://shop.test", storage.NewMemory(), nil)
	if err != nil {
		t.Fatalf("new jar: %v", err)
	}
	client := NewClient(WithHTTPClient(callerClient), WithTimeout(3*time.Second), WithCookieJar(jar))

	if callerClient.Timeout != 0 || callerClient.Jar != nil {
		t.Fatalf("caller client mutated: timeout=%v jar=%v", callerClient.Timeout, callerClient.Jar)
	}
	if client.httpClient.Timeout != 3*time.Second || client.httpClient.Jar != jar {
		t.Fatalf("options not applied to the copy: %+v", client.httpClient)
	}
	if client.httpClient.Transport == nil {
		t.Fatal("expected caller transport kept")
	}
}
