package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"palletbay/internal/config"
	"palletbay/internal/http/handlers"
	applog "palletbay/internal/log"
	"palletbay/internal/repos"
)

const (
	adminEmail = "admin@palletbay.test"
	adminPass  = "Admin123!"
	clientPass = "Client123!"
)

type testServer struct {
	app  *fiber.App
	deps *handlers.Deps
	cfg  config.Config

	adminToken  string
	clientToken string
	otherToken  string

	productID int64
	clientID  int64
	otherID   int64
}

// newTestServer boots the full app on a temp sqlite file with an admin,
// one product and two clients, all created through the API.
func newTestServer(t *testing.T, opts ...func(*config.Config)) *testServer {
	t.Helper()
	cfg := config.Config{
		Env:           "test",
		DBDriver:      "sqlite",
		DBDSN:         filepath.Join(t.TempDir(), "palletbay.db"),
		JWTSecret:     "test-secret",
		JWTExpiration: 60,
		JWTIssuer:     "palletbay-test",
		CORSOrigin:    "*",
		LoginLimit:    100,
	}
	for _, o := range opts {
		o(&cfg)
	}

	ctx := context.Background()
	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repos.Migrate(ctx, db))

	deps := handlers.NewDeps(db, cfg)
	_, err = deps.Auth.EnsureAdmin(ctx, "Admin", adminEmail, adminPass)
	require.NoError(t, err)

	s := &testServer{app: handlers.NewApp(cfg, deps), deps: deps, cfg: cfg}
	s.adminToken = s.login(t, adminEmail, adminPass)
	s.productID = s.create(t, "/api/admin/products", `{"sku":"PRD001","name":"Impresora Laser","weight":"15.5"}`)
	s.clientID = s.create(t, "/api/admin/clients", `{"name":"Cliente Demo","email":"cliente@demo.com","password":"Client123!","cuit":"20-12345678-9"}`)
	s.otherID = s.create(t, "/api/admin/clients", `{"name":"Otro Cliente","email":"otro@demo.com","password":"Client123!"}`)
	s.clientToken = s.login(t, "cliente@demo.com", clientPass)
	s.otherToken = s.login(t, "otro@demo.com", clientPass)
	return s
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (*http.Response, []byte) {
	t.Helper()
	req := newRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	resp, body := s.do(t, "POST", "/api/login", "", fmt.Sprintf(`{"email":%q,"password":%q}`, email, password))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out struct {
		Token string `json:"token"`
	}
	decode(t, body, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

// create POSTs body as the admin and returns the new row id.
func (s *testServer) create(t *testing.T, path, body string) int64 {
	t.Helper()
	resp, raw := s.do(t, "POST", path, s.adminToken, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var out struct {
		ID int64 `json:"id"`
	}
	decode(t, raw, &out)
	require.NotZero(t, out.ID)
	return out.ID
}

func (s *testServer) inbound(t *testing.T, clientID int64, qty any, location, pallet string) int64 {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"product_id": s.productID, "client_id": clientID, "quantity": qty,
		"location": location, "pallet_type": pallet,
	})
	require.NoError(t, err)
	return s.create(t, "/api/admin/inventory", string(body))
}

func decode(t *testing.T, raw []byte, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v), string(raw))
}

type logEntry struct {
	Level  string         `json:"level"`
	Kind   string         `json:"kind"`
	Action string         `json:"action"`
	ReqID  string         `json:"req_id"`
	UserID int64          `json:"user_id"`
	Status int            `json:"status"`
	Error  string         `json:"error"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

// captureLogs redirects the app logger while fn runs and returns the
// JSON lines it wrote.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf lockedBuf
	applog.SetOutput(&buf)
	defer applog.SetOutput(os.Stdout)

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.b.String()), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}

func newRequest(method, path, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}
