package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/cryptox"
	"github.com/dmitrijs2005/userauth/internal/logging"
	"github.com/dmitrijs2005/userauth/internal/server/auth"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"github.com/dmitrijs2005/userauth/internal/server/repositories/users"
	"github.com/dmitrijs2005/userauth/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fixture struct {
	router *gin.Engine
	issuer *auth.TokenIssuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := users.NewMemoryRepository(users.DevUsers())
	require.NoError(t, err)

	issuer, err := auth.NewTokenIssuer(auth.IssuerConfig{Secret: testSecret, Validity: time.Hour, Issuer: auth.DefaultIssuer})
	require.NoError(t, err)

	authorizer, err := auth.NewPolicyAuthorizer(auth.DefaultPolicies()...)
	require.NoError(t, err)

	svc, err := services.NewUserService(repo, cryptox.NewPasswordHasher(cryptox.DefaultIterations), issuer, logging.NopLogger{})
	require.NoError(t, err)

	r, err := NewRouter(svc, issuer, authorizer, logging.NopLogger{})
	require.NoError(t, err)

	return &fixture{router: r, issuer: issuer}
}

func (f *fixture) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) token(t *testing.T, id int, role models.Role) string {
	t.Helper()
	tok, err := f.issuer.Issue(&models.User{ID: id, Role: role})
	require.NoError(t, err)
	return tok
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/users/authenticate", `{"username":"admin","password":"admin"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp services.AuthenticateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.ID)
	assert.Equal(t, models.RoleAdmin, resp.Role)
	assert.NotEmpty(t, resp.Token)
	assert.NotContains(t, w.Body.String(), "A8ch5Fdbsw0C52wgwbW2pA")

	claims, err := f.issuer.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, 2, claims.UserID)
}

func TestAuthenticate_Rejections(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
		code int
		msg  string
	}{
		{"wrong password", `{"username":"test","password":"nope"}`, http.StatusBadRequest, msgBadCredentials},
		{"unknown user", `{"username":"ghost","password":"test"}`, http.StatusBadRequest, msgBadCredentials},
		{"missing password", `{"username":"test"}`, http.StatusBadRequest, msgBadCredentials},
		{"not json", `username=test`, http.StatusBadRequest, msgBadCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/users/authenticate", tt.body, "")
			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.msg, message(t, w))
		})
	}
}

func TestGetAll_Policy(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/users", "", f.token(t, 2, models.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)
	assert.NotContains(t, w.Body.String(), "passwordHash")

	w = f.do(t, http.MethodGet, "/users", "", f.token(t, 1, models.RoleUser))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, msgForbidden, message(t, w))

	w = f.do(t, http.MethodGet, "/users", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, msgUnauthorized, message(t, w))
}

func TestGetByID(t *testing.T) {
	f := newFixture(t)
	userTok := f.token(t, 1, models.RoleUser)

	w := f.do(t, http.MethodGet, "/users/2", "", userTok)
	require.Equal(t, http.StatusOK, w.Code)
	var p models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "admin", p.Username)

	w = f.do(t, http.MethodGet, "/users/99", "", userTok)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/users/abc", "", userTok)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProtectedRoutes_RejectBadTokens(t *testing.T) {
	f := newFixture(t)

	other, err := auth.NewTokenIssuer(auth.IssuerConfig{Secret: []byte("another-secret-another-secret-!!"), Validity: time.Hour})
	require.NoError(t, err)
	forged, err := other.Issue(&models.User{ID: 2, Role: models.RoleAdmin})
	require.NoError(t, err)

	past := time.Now().Add(-2 * time.Hour)
	stale, err := auth.NewTokenIssuer(auth.IssuerConfig{
		Secret:   testSecret,
		Validity: time.Minute,
		Issuer:   auth.DefaultIssuer,
		Now:      func() time.Time { return past },
	})
	require.NoError(t, err)
	expired, err := stale.Issue(&models.User{ID: 2, Role: models.RoleAdmin})
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"garbage": "not-a-token",
		"forged":  forged,
		"expired": expired,
	} {
		t.Run(name, func(t *testing.T) {
			w := f.do(t, http.MethodGet, "/users/1", "", tok)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, msgUnauthorized, message(t, w))
		})
	}
}

func TestRequestID(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/users", "", "")
	assert.NotEmpty(t, w.Header().Get(common.RequestIDHeaderName))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set(common.RequestIDHeaderName, "5f0c7c1a-1b7e-4a5b-9a43-0f9b5d1f3c11")
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, "5f0c7c1a-1b7e-4a5b-9a43-0f9b5d1f3c11", w.Header().Get(common.RequestIDHeaderName))
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Bearer ", ""},
		{"Basic abc", ""},
		{"", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.want, extractBearerToken(req), tt.header)
	}
}

type brokenService struct{}

func (brokenService) Authenticate(context.Context, string, string) (*services.AuthenticateResponse, error) {
	return nil, common.ErrorInternal
}
func (brokenService) GetAll(context.Context) ([]models.Profile, error) {
	return nil, errors.New("boom")
}
func (brokenService) GetByID(context.Context, int) (models.Profile, error) {
	return models.Profile{}, common.ErrorInternal
}

func TestServiceFailuresAre500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer, err := auth.NewTokenIssuer(auth.IssuerConfig{Secret: testSecret, Validity: time.Hour})
	require.NoError(t, err)
	authorizer, err := auth.NewPolicyAuthorizer(auth.DefaultPolicies()...)
	require.NoError(t, err)
	r, err := NewRouter(brokenService{}, issuer, authorizer, logging.NopLogger{})
	require.NoError(t, err)
	f := &fixture{router: r, issuer: issuer}
	admin := f.token(t, 2, models.RoleAdmin)

	assert.Equal(t, http.StatusInternalServerError, f.do(t, http.MethodPost, "/users/authenticate", `{"username":"a","password":"b"}`, "").Code)
	assert.Equal(t, http.StatusInternalServerError, f.do(t, http.MethodGet, "/users", "", admin).Code)
	assert.Equal(t, http.StatusInternalServerError, f.do(t, http.MethodGet, "/users/1", "", admin).Code)
}

func TestNewRouter_MissingPolicy(t *testing.T) {
	authorizer, err := auth.NewPolicyAuthorizer(auth.RequireRoles(auth.PolicyAdmin, models.RoleAdmin))
	require.NoError(t, err)

	_, err = NewRouter(brokenService{}, nil, authorizer, logging.NopLogger{})
	require.ErrorIs(t, err, common.ErrUnknownPolicy)
}
