package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	authdomain "github.com/techdrop/catalog/internal/auth/domain"
	authrepository "github.com/techdrop/catalog/internal/auth/repository"
	authservice "github.com/techdrop/catalog/internal/auth/service"
	"github.com/techdrop/catalog/internal/auth/session"
	"github.com/techdrop/catalog/internal/auth/token"
	"github.com/techdrop/catalog/internal/clock"
	"github.com/techdrop/catalog/internal/config"
	productdomain "github.com/techdrop/catalog/internal/product/domain"
	productrepository "github.com/techdrop/catalog/internal/product/repository"
	productservice "github.com/techdrop/catalog/internal/product/service"
	"github.com/techdrop/catalog/internal/seed"
	"github.com/techdrop/catalog/pkg/db"
	"go.uber.org/zap"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "s3cret-admin"
	testJWTSecret     = "test-signing-secret"
)

type testServer struct {
	srv    *Server
	engine *gin.Engine
	clk    *clock.FakeClock
	issuer token.Issuer
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		HTTPAddr:       ":0",
		AuthJWTSecret:  testJWTSecret,
		AuthCookieName: session.DefaultCookieName,
		AdminEmail:     testAdminEmail,
		AdminPassword:  testAdminPassword,
	}

	gdb, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&productdomain.Product{}, &authdomain.Administrator{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := seed.EnsureAdmin(gdb, cfg); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	start, err := time.Parse(time.RFC3339, "2024-06-01T12:00:00Z")
	if err != nil {
		t.Fatalf("parse start time: %v", err)
	}
	clk := clock.NewFakeClock(start)

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	issuer, err := token.NewIssuer(cfg.AuthJWTSecret, clk)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	authSvc := authservice.New(zap.NewNop(), authrepository.New(gdb), issuer)
	productSvc := productservice.New(productservice.Params{
		DB:    gdb,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  productrepository.Provide(),
		Clock: clk,
	})

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	srv := NewServer(ServerParams{
		Gin:            engine,
		Cfg:            cfg,
		AuthService:    authSvc,
		ProductService: productSvc,
		Sessions:       session.NewManager(cfg),
	})

	return &testServer{srv: srv, engine: engine, clk: clk, issuer: issuer}
}

func (ts *testServer) request(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func (ts *testServer) login(t *testing.T) *http.Cookie {
	t.Helper()

	w := ts.request(t, http.MethodPost, "/api/auth/login", gin.H{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	for _, c := range w.Result().Cookies() {
		if c.Name == session.DefaultCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("login did not set the session cookie")
	return nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestLoginSetsHTTPOnlyCookie(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.request(t, http.MethodPost, "/api/auth/login", gin.H{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["message"] != "Logged in" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	user, ok := body["user"].(map[string]any)
	if !ok || user["email"] != testAdminEmail || user["role"] != authdomain.RoleAdmin {
		t.Fatalf("unexpected user payload: %v", body["user"])
	}

	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name != session.DefaultCookieName {
			continue
		}
		found = true
		if !c.HttpOnly {
			t.Fatal("session cookie must be HTTP-only")
		}
		if c.SameSite != http.SameSiteLaxMode {
			t.Fatalf("expected SameSite=Lax, got %v", c.SameSite)
		}
	}
	if !found {
		t.Fatal("session cookie not set")
	}
}

func TestLoginFailuresShareOneResponse(t *testing.T) {
	ts := setupTestServer(t)

	unknown := ts.request(t, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "nobody@example.com",
		"password": testAdminPassword,
	}, nil)
	wrongPassword := ts.request(t, http.MethodPost, "/api/auth/login", gin.H{
		"email":    testAdminEmail,
		"password": "wrong",
	}, nil)

	if unknown.Code != http.StatusUnauthorized || wrongPassword.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", unknown.Code, wrongPassword.Code)
	}
	if unknown.Body.String() != wrongPassword.Body.String() {
		t.Fatalf("expected identical bodies, got %s vs %s", unknown.Body.String(), wrongPassword.Body.String())
	}
}

func TestLoginMissingFields(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.request(t, http.MethodPost, "/api/auth/login", gin.H{"email": testAdminEmail}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMeRequiresSession(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.request(t, http.MethodGet, "/api/auth/me", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	cookie := ts.login(t)
	w = ts.request(t, http.MethodGet, "/api/auth/me", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	user, ok := body["user"].(map[string]any)
	if !ok || user["email"] != testAdminEmail {
		t.Fatalf("unexpected user payload: %v", body["user"])
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.login(t)

	w := ts.request(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == session.DefaultCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("logout did not clear the session cookie")
	}
}

func TestMutationsRequireAdmin(t *testing.T) {
	ts := setupTestServer(t)

	payload := gin.H{
		"title":      "Galaxy S24",
		"brand":      "Samsung",
		"category":   "phone",
		"launchDate": "2024-01-17",
	}

	// No cookie at all.
	w := ts.request(t, http.MethodPost, "/api/products", payload, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}

	// A valid token with a non-admin role.
	raw, _, err := ts.issuer.Issue(authdomain.Identity{ID: snowflake.ParseInt64(7), Role: "viewer"})
	if err != nil {
		t.Fatalf("issue viewer token: %v", err)
	}
	w = ts.request(t, http.MethodPost, "/api/products", payload, &http.Cookie{
		Name:  session.DefaultCookieName,
		Value: raw,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}

	// A tampered token.
	w = ts.request(t, http.MethodPost, "/api/products", payload, &http.Cookie{
		Name:  session.DefaultCookieName,
		Value: raw + "x",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for tampered token, got %d", w.Code)
	}

	// An expired session.
	cookie := ts.login(t)
	ts.clk.Advance(token.TTL + time.Minute)
	w = ts.request(t, http.MethodPost, "/api/products", payload, cookie)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired session, got %d", w.Code)
	}
}

func TestProductCRUDOverHTTP(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.login(t)

	w := ts.request(t, http.MethodPost, "/api/products", gin.H{
		"title":      "Galaxy S24",
		"brand":      "Samsung",
		"category":   "phone",
		"launchDate": "2024-01-17",
		"price":      799.99,
	}, cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decodeBody(t, w)
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("expected id in response, got %v", created)
	}
	if created["slug"] != "galaxy-s24-samsung" {
		t.Fatalf("unexpected slug: %v", created["slug"])
	}
	if created["status"] != string(productdomain.StatusLaunched) {
		t.Fatalf("unexpected status: %v", created["status"])
	}

	w = ts.request(t, http.MethodGet, "/api/products/galaxy-s24-samsung", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}

	w = ts.request(t, http.MethodPut, "/api/products/"+id, gin.H{"price": 749.0}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	updated := decodeBody(t, w)
	if updated["price"] != 749.0 {
		t.Fatalf("unexpected price: %v", updated["price"])
	}

	w = ts.request(t, http.MethodDelete, "/api/products/"+id, nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["message"] != "Deleted" {
		t.Fatalf("unexpected delete body: %v", body)
	}

	w = ts.request(t, http.MethodGet, "/api/products/galaxy-s24-samsung", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestCreateValidationMapsTo400(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.login(t)

	w := ts.request(t, http.MethodPost, "/api/products", gin.H{
		"title":      "Surface Pro",
		"brand":      "Microsoft",
		"category":   "tablet",
		"launchDate": "2024-05-01",
	}, cookie)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	errObj, ok := body["error"].(map[string]any)
	if !ok || errObj["type"] != "validation_error" {
		t.Fatalf("unexpected error payload: %v", body)
	}
}

func TestListOverHTTP(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.login(t)

	for i := 0; i < 3; i++ {
		w := ts.request(t, http.MethodPost, "/api/products", gin.H{
			"title":      fmt.Sprintf("Phone %d", i),
			"brand":      "Acme",
			"category":   "phone",
			"launchDate": "2024-01-01",
		}, cookie)
		if w.Code != http.StatusCreated {
			t.Fatalf("seed %d: expected 201, got %d", i, w.Code)
		}
	}

	w := ts.request(t, http.MethodGet, "/api/products?category=phone&limit=2", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var page productdomain.Page
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Total != 3 || page.Limit != 2 || page.Pages != 2 || len(page.Items) != 2 {
		t.Fatalf("unexpected page: total=%d limit=%d pages=%d items=%d",
			page.Total, page.Limit, page.Pages, len(page.Items))
	}

	w = ts.request(t, http.MethodGet, "/api/products?status=cancelled", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", w.Code)
	}
}
