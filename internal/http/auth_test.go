package handlers_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palletbay/internal/config"
	"palletbay/internal/domain"
	"palletbay/internal/token"
)

func TestLoginReturnsRoleAndName(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, "POST", "/api/login", "", `{"email":"cliente@demo.com","password":"Client123!"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Token    string `json:"token"`
		Role     string `json:"role"`
		Name     string `json:"name"`
		ClientID int64  `json:"client_id"`
	}
	decode(t, body, &out)
	assert.Equal(t, domain.RoleClient, out.Role)
	assert.Equal(t, "Cliente Demo", out.Name)
	assert.Equal(t, s.clientID, out.ClientID)
	assert.Len(t, strings.Split(out.Token, "."), 3)
}

func TestLoginFailuresLookAlike(t *testing.T) {
	s := newTestServer(t)

	wrongPw, b1 := s.do(t, "POST", "/api/login", "", `{"email":"cliente@demo.com","password":"Nope1234!"}`)
	unknown, b2 := s.do(t, "POST", "/api/login", "", `{"email":"ghost@demo.com","password":"Client123!"}`)
	malformed, b3 := s.do(t, "POST", "/api/login", "", `{"email":`)

	for _, r := range []*http.Response{wrongPw, unknown, malformed} {
		assert.Equal(t, http.StatusUnauthorized, r.StatusCode)
	}
	assert.JSONEq(t, string(b1), string(b2))
	assert.JSONEq(t, string(b1), string(b3))
}

func TestPasswordsAreStoredHashed(t *testing.T) {
	s := newTestServer(t)
	var hash string
	require.NoError(t, s.deps.DB.Get(&hash, `SELECT password_hash FROM clients WHERE email = ?`, "cliente@demo.com"))
	assert.NotEqual(t, clientPass, hash)
	assert.True(t, strings.HasPrefix(hash, "$2"), "bcrypt hash expected")
}

func TestLoginThrottle(t *testing.T) {
	// three logins are spent while seeding the server
	s := newTestServer(t, func(c *config.Config) { c.LoginLimit = 5 })

	for i := 0; i < 2; i++ {
		resp, _ := s.do(t, "POST", "/api/login", "", `{"email":"cliente@demo.com","password":"bad"}`)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "attempt %d", i)
	}
	resp, _ := s.do(t, "POST", "/api/login", "", `{"email":"cliente@demo.com","password":"Client123!"}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestBearerTokenRules(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + s.adminToken, http.StatusUnauthorized},
		{"lowercase scheme", "bearer " + s.adminToken, http.StatusOK},
		{"valid", "Bearer " + s.adminToken, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := newRequest("GET", "/api/admin/inventory", "")
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := s.app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestForeignAndExpiredTokensRejected(t *testing.T) {
	s := newTestServer(t)
	admin := domain.Identity{ClientID: 1, Role: domain.RoleAdmin}

	foreign, _, err := token.NewIssuer("someone-else", s.cfg.JWTIssuer, time.Hour).Issue(admin)
	require.NoError(t, err)
	expired, _, err := token.NewIssuer(s.cfg.JWTSecret, s.cfg.JWTIssuer, -time.Minute).Issue(admin)
	require.NoError(t, err)

	for _, tok := range []string{foreign, expired} {
		resp, _ := s.do(t, "GET", "/api/admin/inventory", tok, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestAuthLogging(t *testing.T) {
	s := newTestServer(t)

	entries := captureLogs(t, func() {
		s.do(t, "POST", "/api/login", "", `{"email":"cliente@demo.com","password":"Client123!"}`)
		s.do(t, "POST", "/api/login", "", `{"email":"cliente@demo.com","password":"Wrong-pass1"}`)
	})

	ok, found := findLog(entries, "auth.login.success")
	require.True(t, found, "auth.login.success missing")
	assert.Equal(t, "audit", ok.Kind)
	assert.Equal(t, "cliente@demo.com", ok.Fields["email"])
	assert.Equal(t, s.clientID, ok.UserID)

	bad, found := findLog(entries, "auth.login.fail")
	require.True(t, found, "auth.login.fail missing")
	assert.Equal(t, "security", bad.Kind)
	assert.NotContains(t, bad.Fields, "password")
}
