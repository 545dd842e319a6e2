package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"artmarket/internal/config"
	domainArtwork "artmarket/internal/domain/artwork"
	artworkMocks "artmarket/internal/domain/artwork/mocks"
	domainUser "artmarket/internal/domain/user"
	"artmarket/internal/domain/user/usertest"
	"artmarket/internal/infrastructure/notification"
	"artmarket/internal/middleware"
	"artmarket/internal/usecase/artwork"
	"artmarket/internal/usecase/user"
	"artmarket/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type capturingMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

func (m *capturingMailer) SendPasswordResetOTP(_ context.Context, to, _, code string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[to] = code
	return nil
}

func (m *capturingMailer) code(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[to]
}

type testServer struct {
	router   *gin.Engine
	users    *usertest.MemoryRepository
	artworks *artworkMocks.MockRepository
	mailer   *capturingMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		JWT:   config.JWTConfig{Secret: "handler-secret", ExpiryHours: 1},
		Reset: config.ResetConfig{OTPTTLMinutes: 10, CleanupIntervalMinutes: 60, CleanupGraceHours: 24},
	}
	s := &testServer{
		users:    usertest.NewMemoryRepository(),
		artworks: artworkMocks.NewMockRepository(gomock.NewController(t)),
		mailer:   &capturingMailer{codes: make(map[string]string)},
	}
	tokens := utils.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expiry())
	publisher := notification.NopPublisher{}

	userService := user.NewService(s.users, tokens, s.mailer, publisher, cfg)
	artworkService := artwork.NewService(s.artworks, publisher)

	authHandler := NewAuthHandler(userService)
	userHandler := NewUserHandler(userService)
	artworkHandler := NewArtworkHandler(artworkService)

	s.router = gin.New()
	s.router.Use(middleware.RequestIDMiddleware())
	api := s.router.Group("/api")
	authHandler.RegisterRoutes(api)

	optional := api.Group("", middleware.OptionalAuth(tokens, s.users))
	artworkHandler.RegisterRoutes(optional)

	protected := api.Group("", middleware.Auth(tokens, s.users))
	authHandler.RegisterSessionRoutes(protected)
	userHandler.RegisterProfileRoutes(protected)
	artworkHandler.RegisterArtistRoutes(protected.Group("", middleware.ArtistOnly()))

	admin := protected.Group("/admin", middleware.AdminOnly())
	userHandler.RegisterAdminRoutes(admin)

	return s
}

type response struct {
	status int
	body   map[string]interface{}
}

func (r response) str(key string) string {
	v, _ := r.body[key].(string)
	return v
}

func (s *testServer) do(t *testing.T, method, path, token string, payload interface{}) response {
	t.Helper()

	var body *bytes.Reader
	switch p := payload.(type) {
	case nil:
		body = bytes.NewReader(nil)
	case string:
		body = bytes.NewReader([]byte(p))
	default:
		raw, err := json.Marshal(p)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	resp := response{status: w.Code}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp.body), w.Body.String())
	return resp
}

func (s *testServer) register(t *testing.T, username, role string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":            strings.ToUpper(username[:1]) + username[1:],
		"username":        username,
		"email":           username + "@x.com",
		"password":        "pw123456",
		"confirmPassword": "pw123456",
		"role":            role,
	})
	require.Equal(t, http.StatusCreated, resp.status, resp.body)
	return resp.str("token")
}

func (s *testServer) login(t *testing.T, identifier, password string) response {
	t.Helper()
	return s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"emailOrUsername": identifier,
		"password":        password,
	})
}

func TestRegisterLoginAndSession(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice", "")

	login := s.login(t, "alice", "pw123456")
	require.Equal(t, http.StatusOK, login.status)
	assert.Equal(t, true, login.body["success"])
	token := login.str("token")
	require.NotEmpty(t, token)

	u, ok := login.body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "buyer", u["role"])
	assert.NotContains(t, u, "password")
	assert.NotContains(t, u, "passwordHashed")

	me := s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, me.status)

	truncated := s.do(t, http.MethodGet, "/api/auth/me", token[:len(token)-4], nil)
	assert.Equal(t, http.StatusUnauthorized, truncated.status)
	assert.Equal(t, "TOKEN_INVALID", truncated.str("code"))

	missing := s.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, missing.status)
	assert.Equal(t, "AUTH_REQUIRED", missing.str("code"))

	wrong := s.login(t, "alice@x.com", "nope123")
	assert.Equal(t, http.StatusUnauthorized, wrong.status)
	assert.Equal(t, "INVALID_CREDENTIALS", wrong.str("code"))
}

func TestRegister_Errors(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice", "")

	duplicate := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Other", "username": "ALICE", "email": "other@x.com", "password": "pw123456", "confirmPassword": "pw123456",
	})
	assert.Equal(t, http.StatusBadRequest, duplicate.status)
	assert.Equal(t, "USERNAME_TAKEN", duplicate.str("code"))

	short := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Bob", "username": "bob", "email": "bob@x.com", "password": "123", "confirmPassword": "123",
	})
	assert.Equal(t, http.StatusBadRequest, short.status)
	assert.Equal(t, "VALIDATION_ERROR", short.str("code"))
	assert.Equal(t, "password must be at least 6 characters", short.str("message"))

	malformed := s.do(t, http.MethodPost, "/api/auth/register", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, malformed.status)
	assert.Equal(t, "INVALID_BODY", malformed.str("code"))
}

func TestPasswordResetFlow(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice", "")

	sent := s.do(t, http.MethodPost, "/api/auth/send-otp", "", gin.H{"emailOrUsername": "alice"})
	require.Equal(t, http.StatusOK, sent.status)
	r1 := sent.str("resetToken")
	require.NotEmpty(t, r1)
	code := s.mailer.code("alice@x.com")
	require.Len(t, code, 6)

	badCode := "000000"
	if code == badCode {
		badCode = "111111"
	}
	wrong := s.do(t, http.MethodPost, "/api/auth/verify-otp", "", gin.H{"emailOrUsername": "alice", "otp": badCode, "resetToken": r1})
	assert.Equal(t, http.StatusBadRequest, wrong.status)
	assert.Equal(t, "OTP_INVALID", wrong.str("code"))

	verified := s.do(t, http.MethodPost, "/api/auth/verify-otp", "", gin.H{"emailOrUsername": "alice", "otp": code, "resetToken": r1})
	require.Equal(t, http.StatusOK, verified.status)
	r2 := verified.str("verifiedToken")
	assert.Equal(t, r1+"_verified", r2)

	unverified := s.do(t, http.MethodPost, "/api/auth/reset-password", "", gin.H{"emailOrUsername": "alice", "newPassword": "newpass1", "resetToken": r1})
	assert.Equal(t, http.StatusBadRequest, unverified.status)
	assert.Equal(t, "RESET_NOT_VERIFIED", unverified.str("code"))

	reset := s.do(t, http.MethodPost, "/api/auth/reset-password", "", gin.H{"emailOrUsername": "alice", "newPassword": "newpass1", "resetToken": r2})
	require.Equal(t, http.StatusOK, reset.status)

	assert.Equal(t, http.StatusOK, s.login(t, "alice", "newpass1").status)
	assert.Equal(t, http.StatusUnauthorized, s.login(t, "alice", "pw123456").status)

	replay := s.do(t, http.MethodPost, "/api/auth/reset-password", "", gin.H{"emailOrUsername": "alice", "newPassword": "another1", "resetToken": r2})
	assert.Equal(t, http.StatusBadRequest, replay.status)
}

func TestSendOTP_UnknownUser(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/auth/send-otp", "", gin.H{"emailOrUsername": "ghost"})
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.Equal(t, "USER_NOT_FOUND", resp.str("code"))
}

func TestAdminBlocksUser(t *testing.T) {
	s := newTestServer(t)
	aliceToken := s.register(t, "alice", "")
	rootToken := s.register(t, "root", "")

	root, err := s.users.GetByUsername(context.Background(), "root")
	require.NoError(t, err)
	require.NoError(t, s.users.UpdateRole(context.Background(), root.ID, domainUser.RoleAdmin))
	alice, err := s.users.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)

	forbidden := s.do(t, http.MethodGet, "/api/admin/users", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, forbidden.status)
	assert.Equal(t, "INSUFFICIENT_PERMISSIONS", forbidden.str("code"))

	list := s.do(t, http.MethodGet, "/api/admin/users?role=buyer", rootToken, nil)
	require.Equal(t, http.StatusOK, list.status)
	assert.EqualValues(t, 1, list.body["total"])

	self := s.do(t, http.MethodPut, "/api/admin/users/"+root.ID.String()+"/block", rootToken, gin.H{"blocked": true})
	assert.Equal(t, http.StatusBadRequest, self.status)
	assert.Equal(t, "SELF_MODERATION", self.str("code"))

	blocked := s.do(t, http.MethodPut, "/api/admin/users/"+alice.ID.String()+"/block", rootToken, gin.H{"blocked": true})
	require.Equal(t, http.StatusOK, blocked.status)

	me := s.do(t, http.MethodGet, "/api/auth/me", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, me.status)
	assert.Equal(t, "ACCOUNT_BLOCKED", me.str("code"))

	login := s.login(t, "alice", "pw123456")
	assert.Equal(t, http.StatusForbidden, login.status)

	badID := s.do(t, http.MethodPut, "/api/admin/users/not-a-uuid/block", rootToken, gin.H{"blocked": true})
	assert.Equal(t, http.StatusBadRequest, badID.status)
	assert.Equal(t, "INVALID_ID", badID.str("code"))
}

func TestProfile(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "alice", "artist")

	updated := s.do(t, http.MethodPut, "/api/profile", token, gin.H{"bio": "Oil on canvas"})
	require.Equal(t, http.StatusOK, updated.status)
	u := updated.body["user"].(map[string]interface{})
	assert.Equal(t, "Oil on canvas", u["bio"])

	wrongOld := s.do(t, http.MethodPost, "/api/profile/change-password", token, gin.H{
		"oldPassword": "nope123", "newPassword": "newpass1", "confirmPassword": "newpass1",
	})
	assert.Equal(t, http.StatusUnauthorized, wrongOld.status)
	assert.Equal(t, "INVALID_CREDENTIALS", wrongOld.str("code"))
}

func TestArtworkRoutes(t *testing.T) {
	s := newTestServer(t)
	buyerToken := s.register(t, "alice", "buyer")
	artistToken := s.register(t, "bob", "artist")

	forbidden := s.do(t, http.MethodPost, "/api/artworks", buyerToken, gin.H{
		"title": "Sneaky", "category": "painting", "imageUrl": "https://cdn.example.com/a.jpg", "price": 100,
	})
	assert.Equal(t, http.StatusForbidden, forbidden.status)

	s.artworks.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a *domainArtwork.Artwork) error {
		a.ID = uuid.New()
		return nil
	})
	created := s.do(t, http.MethodPost, "/api/artworks", artistToken, gin.H{
		"title": "Harbour", "category": "painting", "imageUrl": "https://cdn.example.com/h.jpg", "price": 12500,
	})
	require.Equal(t, http.StatusCreated, created.status)
	a := created.body["artwork"].(map[string]interface{})
	assert.Equal(t, true, a["isMine"])

	hiddenID := uuid.New()
	s.artworks.EXPECT().GetByID(gomock.Any(), hiddenID).Return(&domainArtwork.Artwork{
		ID: hiddenID, ArtistID: uuid.New(), Status: domainArtwork.StatusHidden,
	}, nil)
	hidden := s.do(t, http.MethodGet, "/api/artworks/"+hiddenID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, hidden.status)
	assert.Equal(t, "ARTWORK_NOT_FOUND", hidden.str("code"))

	badQuery := s.do(t, http.MethodGet, "/api/artworks?sortBy=popularity", "", nil)
	assert.Equal(t, http.StatusBadRequest, badQuery.status)
	assert.Equal(t, "VALIDATION_ERROR", badQuery.str("code"))
}

func TestRespondWithError_HidesInternalDetail(t *testing.T) {
	router := gin.New()
	router.GET("/boom", func(c *gin.Context) {
		respondWithError(c, errors.New("pq: relation \"users\" does not exist"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "relation")
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
