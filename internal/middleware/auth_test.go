package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainUser "artmarket/internal/domain/user"
	"artmarket/internal/domain/user/usertest"
	"artmarket/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type authFixture struct {
	tokens *utils.TokenIssuer
	users  *usertest.MemoryRepository
	router *gin.Engine
}

func newAuthFixture(t *testing.T, chain ...gin.HandlerFunc) *authFixture {
	t.Helper()
	f := &authFixture{
		tokens: utils.NewTokenIssuer("middleware-secret", time.Hour),
		users:  usertest.NewMemoryRepository(),
		router: gin.New(),
	}

	handlers := append([]gin.HandlerFunc{Auth(f.tokens, f.users)}, chain...)
	handlers = append(handlers, func(c *gin.Context) {
		authCtx, ok := CurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"userId": authCtx.UserID.String(), "role": authCtx.User.Role})
	})
	f.router.GET("/protected", handlers...)
	return f
}

func (f *authFixture) createUser(t *testing.T, username string, role domainUser.Role) *domainUser.User {
	t.Helper()
	u := &domainUser.User{
		Name:           username,
		Username:       username,
		Email:          username + "@example.com",
		PasswordHashed: "hash",
		Role:           role,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *authFixture) get(header string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestAuth_Rejections(t *testing.T) {
	f := newAuthFixture(t)
	u := f.createUser(t, "alice", domainUser.RoleBuyer)

	expired, _, err := f.tokens.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).IssueSession(u.ID)
	require.NoError(t, err)
	resetTicket, err := f.tokens.IssueResetTicket(u.ID, time.Minute)
	require.NoError(t, err)
	foreign, _, err := utils.NewTokenIssuer("other-secret", time.Hour).IssueSession(u.ID)
	require.NoError(t, err)
	ghost, _, err := f.tokens.IssueSession(uuid.New())
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized, code: "AUTH_REQUIRED"},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized, code: "AUTH_REQUIRED"},
		{name: "empty bearer", header: "Bearer ", status: http.StatusUnauthorized, code: "AUTH_REQUIRED"},
		{name: "garbage", header: "Bearer not.a.jwt", status: http.StatusUnauthorized, code: "TOKEN_INVALID"},
		{name: "expired", header: "Bearer " + expired, status: http.StatusUnauthorized, code: "TOKEN_EXPIRED"},
		{name: "reset ticket", header: "Bearer " + resetTicket, status: http.StatusUnauthorized, code: "TOKEN_INVALID"},
		{name: "foreign signature", header: "Bearer " + foreign, status: http.StatusUnauthorized, code: "TOKEN_INVALID"},
		{name: "unknown user", header: "Bearer " + ghost, status: http.StatusUnauthorized, code: "USER_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := f.get(tt.header)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.code, body["code"])
		})
	}
}

func TestAuth_BlockedUser(t *testing.T) {
	f := newAuthFixture(t)
	u := f.createUser(t, "mallory", domainUser.RoleBuyer)
	require.NoError(t, f.users.SetBlocked(context.Background(), u.ID, true))

	token, _, err := f.tokens.IssueSession(u.ID)
	require.NoError(t, err)

	w, body := f.get("Bearer " + token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "ACCOUNT_BLOCKED", body["code"])
}

func TestAuth_AttachesUser(t *testing.T) {
	f := newAuthFixture(t)
	u := f.createUser(t, "bob", domainUser.RoleArtist)

	token, _, err := f.tokens.IssueSession(u.ID)
	require.NoError(t, err)

	w, body := f.get("bearer " + token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, u.ID.String(), body["userId"])
	assert.Equal(t, "artist", body["role"])
}

type failingLookup struct{}

func (failingLookup) GetPublicByID(context.Context, uuid.UUID) (*domainUser.User, error) {
	return nil, errors.New("connection refused")
}

func TestAuth_StoreFailureIsInternal(t *testing.T) {
	tokens := utils.NewTokenIssuer("middleware-secret", time.Hour)
	router := gin.New()
	router.GET("/protected", Auth(tokens, failingLookup{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token, _, err := tokens.IssueSession(uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestRequireRoles(t *testing.T) {
	f := newAuthFixture(t, AdminOnly())
	buyer := f.createUser(t, "carol", domainUser.RoleBuyer)
	admin := f.createUser(t, "root", domainUser.RoleAdmin)

	buyerToken, _, err := f.tokens.IssueSession(buyer.ID)
	require.NoError(t, err)
	adminToken, _, err := f.tokens.IssueSession(admin.ID)
	require.NoError(t, err)

	w, body := f.get("Bearer " + buyerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "INSUFFICIENT_PERMISSIONS", body["code"])

	w, _ = f.get("Bearer " + adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	tokens := utils.NewTokenIssuer("middleware-secret", time.Hour)
	users := usertest.NewMemoryRepository()
	u := &domainUser.User{Name: "Dan", Username: "dan", Email: "dan@example.com", PasswordHashed: "hash", Role: domainUser.RoleBuyer}
	require.NoError(t, users.Create(context.Background(), u))

	router := gin.New()
	router.GET("/feed", OptionalAuth(tokens, users), func(c *gin.Context) {
		if authCtx, ok := CurrentUser(c); ok {
			c.String(http.StatusOK, authCtx.UserID.String())
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	token, _, err := tokens.IssueSession(u.ID)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "no header", header: "", want: "anonymous"},
		{name: "invalid token", header: "Bearer junk", want: "anonymous"},
		{name: "valid token", header: "Bearer " + token, want: u.ID.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/feed", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}
