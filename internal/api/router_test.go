package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/catalog-api/internal/api/metrics"
	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/service"
	"github.com/storefront/catalog-api/internal/infrastructure/db/memory"
	"github.com/storefront/catalog-api/internal/infrastructure/security"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	hasher, err := security.NewBcryptHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}
	tokens, err := security.NewJWTService([]byte(testSecret), time.Hour)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}

	policy := domain.DefaultPolicy()
	authSvc := service.NewAuthService(memory.NewUserRepository(), hasher, tokens, policy, zerolog.Nop())
	if err := authSvc.BootstrapAdmin(context.Background(), "root", "root@example.com", "root-password"); err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}

	reg := prometheus.NewRegistry()
	return NewRouter(Deps{
		Log:            zerolog.Nop(),
		AuthService:    authSvc,
		ProductService: service.NewProductService(memory.NewProductRepository(), zerolog.Nop()),
		Verifier:       tokens,
		Policy:         policy,
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
	})
}

func do(t *testing.T, e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, username, password string) string {
	t.Helper()
	rec := do(t, e, http.MethodPost, "/auth/login", "", `{"username":"`+username+`","password":"`+password+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", username, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("login %s: no token in %s", username, rec.Body.String())
	}
	return resp.Token
}

const mugJSON = `{"sku":"MUG-01","name":"Mug","price":1299,"currency":"EUR","stock":4}`

func TestRouter_CustomerScenario(t *testing.T) {
	e := newTestRouter(t)

	rec := do(t, e, http.MethodPost, "/auth/register", "", `{"username":"alice","password":"alice-password"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"role":"CUSTOMER"`) {
		t.Fatalf("register: expected CUSTOMER role, got %s", rec.Body.String())
	}

	token := login(t, e, "alice", "alice-password")

	rec = do(t, e, http.MethodPost, "/v1/products", token, mugJSON)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("create product as customer: expected 403, got %d", rec.Code)
	}

	rec = do(t, e, http.MethodGet, "/v1/products", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list products as customer: expected 200, got %d", rec.Code)
	}

	rec = do(t, e, http.MethodGet, "/v1/users/me", token, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"username":"alice"`) {
		t.Fatalf("me: unexpected %d %s", rec.Code, rec.Body.String())
	}

	wrong := do(t, e, http.MethodPost, "/auth/login", "", `{"username":"alice","password":"not-her-password"}`)
	if wrong.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", wrong.Code)
	}
	unknown := do(t, e, http.MethodPost, "/auth/login", "", `{"username":"nobody","password":"not-her-password"}`)
	if unknown.Code != http.StatusUnauthorized || unknown.Body.String() != wrong.Body.String() {
		t.Fatalf("unknown user response differs: %d %s vs %s", unknown.Code, unknown.Body.String(), wrong.Body.String())
	}
}

func TestRouter_AdministratorScenario(t *testing.T) {
	e := newTestRouter(t)
	token := login(t, e, "root", "root-password")

	rec := do(t, e, http.MethodPost, "/v1/products", token, mugJSON)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID        string `json:"id"`
		CreatedBy string `json:"created_by"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if created.CreatedBy != "root" {
		t.Fatalf("expected created_by root, got %q", created.CreatedBy)
	}

	if rec := do(t, e, http.MethodPost, "/v1/products", token, mugJSON); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate sku: expected 409, got %d", rec.Code)
	}

	update := `{"sku":"MUG-01","name":"Big mug","price":1500,"currency":"EUR","stock":2}`
	if rec := do(t, e, http.MethodPut, "/v1/products/"+created.ID, token, update); rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", rec.Code)
	}
	if rec := do(t, e, http.MethodDelete, "/v1/products/"+created.ID, token, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	if rec := do(t, e, http.MethodGet, "/v1/products/"+created.ID, token, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d", rec.Code)
	}

	rec = do(t, e, http.MethodPost, "/auth/register", token, `{"username":"ops","password":"ops-password","role":"ADMINISTRATOR"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin registers admin: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_AdministratorRegistrationRules(t *testing.T) {
	e := newTestRouter(t)
	body := `{"username":"mallory","password":"mallory-password","role":"ADMINISTRATOR"}`

	rec := do(t, e, http.MethodPost, "/auth/register", "", body)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous admin registration: expected 401, got %d", rec.Code)
	}

	do(t, e, http.MethodPost, "/auth/register", "", `{"username":"alice","password":"alice-password"}`)
	token := login(t, e, "alice", "alice-password")
	rec = do(t, e, http.MethodPost, "/auth/register", token, body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("customer admin registration: expected 403, got %d", rec.Code)
	}

	rec = do(t, e, http.MethodPost, "/auth/register", "garbage", `{"username":"bob","password":"bob-password"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token on register: expected 401, got %d", rec.Code)
	}
}

func TestRouter_AuthenticationFailures(t *testing.T) {
	e := newTestRouter(t)

	rec := do(t, e, http.MethodGet, "/v1/products", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get(echo.HeaderWWWAuthenticate), "Bearer") {
		t.Fatalf("missing WWW-Authenticate challenge")
	}

	token := login(t, e, "root", "root-password")
	i := len(token) - 10
	replacement := "A"
	if token[i] == 'A' {
		replacement = "B"
	}
	tampered := token[:i] + replacement + token[i+1:]
	if rec := do(t, e, http.MethodGet, "/v1/products", tampered, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("tampered token: expected 401, got %d", rec.Code)
	}
}

func TestRouter_GuardRunsBeforeValidation(t *testing.T) {
	e := newTestRouter(t)
	do(t, e, http.MethodPost, "/auth/register", "", `{"username":"alice","password":"alice-password"}`)
	token := login(t, e, "alice", "alice-password")

	rec := do(t, e, http.MethodPost, "/v1/products", token, `{"sku":""}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 before body validation, got %d", rec.Code)
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	e := newTestRouter(t)

	if rec := do(t, e, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	if rec := do(t, e, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", rec.Code)
	}

	login(t, e, "root", "root-password")
	rec := do(t, e, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `catalog_login_attempts_total{outcome="success"} 1`) {
		t.Fatalf("login metric missing from exposition")
	}
}
