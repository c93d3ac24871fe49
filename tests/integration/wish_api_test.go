package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/RulerDevansh/SecretSanta/internal/app"
	"github.com/RulerDevansh/SecretSanta/internal/auth"
	"github.com/RulerDevansh/SecretSanta/internal/config"
	"github.com/RulerDevansh/SecretSanta/internal/group"
	"github.com/RulerDevansh/SecretSanta/internal/jobs"
	"github.com/RulerDevansh/SecretSanta/internal/mailer"
	"github.com/RulerDevansh/SecretSanta/internal/user"
	"github.com/RulerDevansh/SecretSanta/internal/wish"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// recordingMailer captures outbound mail and can be told to fail on demand.
type recordingMailer struct {
	mu       sync.Mutex
	sent     []mailer.Message
	failNext bool
}

func (m *recordingMailer) Deliver(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return errors.New("smtp dial: connection refused")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) lastTo(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "expected at least one delivered email")
	return m.sent[len(m.sent)-1].To
}

func (m *recordingMailer) setFailNext() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = true
}

type testApp struct {
	handler http.Handler
	mail    *recordingMailer
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		GinMode:               gin.TestMode,
		ServerHost:            "127.0.0.1",
		ServerPort:            "0",
		JWTSecretKey:          "integration-test-secret",
		JWTAccessTokenExpiry:  15 * time.Minute,
		JWTRefreshTokenExpiry: 7 * 24 * time.Hour,
	}
	logger := zap.NewNop()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	mail := &recordingMailer{}

	tokenService := auth.NewJWTService(cfg, logger)
	googleVerifier := auth.NewGoogleVerifier(cfg, logger)
	userRepo := user.NewGORMRepository(db)
	userService := user.NewService(userRepo, tokenService, googleVerifier, cfg, logger)
	groupRepo := group.NewGORMRepository(db)
	wishRepo := wish.NewGORMRepository(db)
	groupService := group.NewService(groupRepo, wishRepo, cfg, logger)
	wishService := wish.NewService(wishRepo, groupRepo, userRepo, mail, wish.NewRandomSource(99), logger)

	server, err := app.NewServer(
		cfg,
		logger,
		db,
		tokenService,
		auth.NewHandler(userService, tokenService, logger),
		user.NewHandler(userService, logger),
		group.NewHandler(groupService, logger),
		wish.NewHandler(wishService, logger),
		mailer.NewHandler(mail, logger),
		jobs.NewWishReminderJob(groupRepo, wishRepo, mail, logger, cfg),
	)
	require.NoError(t, err)

	return &testApp{handler: server.Handler(), mail: mail}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Status  string                 `json:"status"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var apiErr struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr.Code
}

func (a *testApp) registerUser(t *testing.T, name, email string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":             name,
		"email":            email,
		"password":         "sup3r-secret",
		"confirm_password": "sup3r-secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := decodeData(t, rec)
	token, _ := data["token"].(map[string]interface{})
	accessToken, _ := token["access_token"].(string)
	require.NotEmpty(t, accessToken)
	return accessToken
}

func (a *testApp) createStartedGroup(t *testing.T, hostToken string, memberTokens ...string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/groups", hostToken, gin.H{"title": "Family"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	code, _ := decodeData(t, rec)["code"].(string)
	require.Len(t, code, group.JoinCodeLength)

	for _, token := range memberTokens {
		rec := a.do(t, http.MethodPost, "/api/v1/groups/join", token, gin.H{"code": code})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = a.do(t, http.MethodPatch, "/api/v1/groups/"+code+"/start", hostToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return code
}

func wishPayload() gin.H {
	return gin.H{
		"display_name":    "Bob",
		"favorite_color":  "green",
		"favorite_snacks": "pretzels",
		"hobbies":         "chess",
		"things_love":     []string{"books", "coffee"},
		"things_no_need":  []string{"candles"},
	}
}

func TestWishSubmissionLifecycle(t *testing.T) {
	a := setupTestApp(t)

	aliceToken := a.registerUser(t, "Alice", "alice@integration.test")
	bobToken := a.registerUser(t, "Bob", "bob@integration.test")
	carolToken := a.registerUser(t, "Carol", "carol@integration.test")
	code := a.createStartedGroup(t, aliceToken, bobToken, carolToken)

	// Before submitting, status is empty.
	rec := a.do(t, http.MethodGet, "/api/v1/groups/"+code+"/wish/status", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeData(t, rec)["submitted"])

	// Bob submits; the wishlist email goes to Alice or Carol, never Bob.
	rec = a.do(t, http.MethodPost, "/api/v1/groups/"+code+"/wish", bobToken, wishPayload())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, true, decodeData(t, rec)["delivered"])
	to := a.mail.lastTo(t)
	assert.NotEqual(t, "bob@integration.test", to)
	assert.Contains(t, []string{"alice@integration.test", "carol@integration.test"}, to)

	// Status now reports a delivered wish.
	rec = a.do(t, http.MethodGet, "/api/v1/groups/"+code+"/wish/status", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, true, data["submitted"])
	assert.Equal(t, true, data["delivered"])

	// A second submission by Bob is rejected by the uniqueness rule.
	rec = a.do(t, http.MethodPost, "/api/v1/groups/"+code+"/wish", bobToken, wishPayload())
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_SUBMISSION", decodeErrorCode(t, rec))

	// The group view reflects Bob's progress for everyone.
	rec = a.do(t, http.MethodGet, "/api/v1/groups/"+code, aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	members, _ := decodeData(t, rec)["members"].([]interface{})
	require.Len(t, members, 3)
	submitted := 0
	for _, raw := range members {
		m := raw.(map[string]interface{})
		if m["wish_submitted"] == true {
			submitted++
			assert.Equal(t, "Bob", m["name"])
		}
	}
	assert.Equal(t, 1, submitted)
}

func TestWishSubmissionRollbackOnDeliveryFailure(t *testing.T) {
	a := setupTestApp(t)

	aliceToken := a.registerUser(t, "Alice", "alice@integration.test")
	bobToken := a.registerUser(t, "Bob", "bob@integration.test")
	code := a.createStartedGroup(t, aliceToken, bobToken)

	// First attempt fails at the SMTP hop: no wish row may survive.
	a.mail.setFailNext()
	rec := a.do(t, http.MethodPost, "/api/v1/groups/"+code+"/wish", aliceToken, wishPayload())
	require.Equal(t, http.StatusBadGateway, rec.Code, rec.Body.String())
	assert.Equal(t, "DELIVERY_FAILED", decodeErrorCode(t, rec))

	rec = a.do(t, http.MethodGet, "/api/v1/groups/"+code+"/wish/status", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeData(t, rec)["submitted"], "failed delivery must leave no record behind")

	// Retrying with the identical payload succeeds.
	rec = a.do(t, http.MethodPost, "/api/v1/groups/"+code+"/wish", aliceToken, wishPayload())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "bob@integration.test", a.mail.lastTo(t))
}

func TestWishSubmissionPreconditions(t *testing.T) {
	a := setupTestApp(t)

	aliceToken := a.registerUser(t, "Alice", "alice@integration.test")
	bobToken := a.registerUser(t, "Bob", "bob@integration.test")
	outsiderToken := a.registerUser(t, "Mallory", "mallory@integration.test")

	// Unknown group code.
	rec := a.do(t, http.MethodPost, "/api/v1/groups/ZZZZZZ/wish", aliceToken, wishPayload())
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "GROUP_NOT_FOUND", decodeErrorCode(t, rec))

	// Group not started yet.
	rec = a.do(t, http.MethodPost, "/api/v1/groups", aliceToken, gin.H{"title": "Family"})
	require.Equal(t, http.StatusCreated, rec.Code)
	code, _ := decodeData(t, rec)["code"].(string)
	rec = a.do(t, http.MethodPost, "/api/v1/groups/join", bobToken, gin.H{"code": code})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/v1/groups/"+code+"/wish", aliceToken, wishPayload())
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "NOT_STARTED", decodeErrorCode(t, rec))

	// Non-member after start.
	rec = a.do(t, http.MethodPatch, "/api/v1/groups/"+code+"/start", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = a.do(t, http.MethodPost, "/api/v1/groups/"+code+"/wish", outsiderToken, wishPayload())
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "NOT_A_MEMBER", decodeErrorCode(t, rec))

	// Unauthenticated.
	rec = a.do(t, http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/wish", code), "", wishPayload())
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
