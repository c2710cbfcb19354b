package server

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	clerkservice "github.com/frontstep/dealanalyzer/internal/clerk/service"
	"github.com/frontstep/dealanalyzer/internal/clerk/verifier"
	"github.com/frontstep/dealanalyzer/internal/config"
	orgdomain "github.com/frontstep/dealanalyzer/internal/organization/domain"
	orgrepo "github.com/frontstep/dealanalyzer/internal/organization/repository"
	userdomain "github.com/frontstep/dealanalyzer/internal/user/domain"
	userrepo "github.com/frontstep/dealanalyzer/internal/user/repository"
)

func newWebhookTestServer(t *testing.T) (*gin.Engine, *verifier.Verifier, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&orgdomain.Organization{}, &userdomain.User{}))

	secret := "whsec_" + base64.StdEncoding.EncodeToString([]byte("endpoint-test-secret"))
	v, err := verifier.New(secret)
	require.NoError(t, err)

	log := zap.NewNop()
	svc := clerkservice.NewService(clerkservice.Params{
		DB:    conn,
		Log:   log,
		Users: userrepo.NewRepository(conn),
		Orgs:  orgrepo.NewRepository(conn),
	})

	engine := gin.New()
	srv := NewServer(Params{
		Gin:      engine,
		Cfg:      config.Config{ClerkWebhookSecret: secret},
		Log:      log,
		DB:       conn,
		Verifier: v,
		ClerkSvc: svc,
	})
	srv.RegisterWebhookRoutes()

	return engine, v, conn
}

func postWebhook(engine *gin.Engine, v *verifier.Verifier, body string) *httptest.ResponseRecorder {
	now := time.Now()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/clerk", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("svix-id", "msg_test")
	req.Header.Set("svix-timestamp", strconv.FormatInt(now.Unix(), 10))
	req.Header.Set("svix-signature", v.Sign("msg_test", now, []byte(body)))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestWebhookUserCreated(t *testing.T) {
	engine, v, conn := newWebhookTestServer(t)

	body := `{"type":"user.created","data":{"id":"u1","email_addresses":[{"email_address":"a@x.com"}],"first_name":"A"}}`
	rec := postWebhook(engine, v, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Webhook processed successfully", rec.Body.String())

	var user userdomain.User
	require.NoError(t, conn.Where("clerk_user_id = ?", "u1").First(&user).Error)
	require.NotNil(t, user.Email)
	assert.Equal(t, "a@x.com", *user.Email)
	require.NotNil(t, user.FirstName)
	assert.Equal(t, "A", *user.FirstName)
}

func TestWebhookTamperedSignature(t *testing.T) {
	engine, _, conn := newWebhookTestServer(t)

	body := `{"type":"user.created","data":{"id":"u1"}}`
	now := time.Now()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/clerk", bytes.NewBufferString(body))
	req.Header.Set("svix-id", "msg_test")
	req.Header.Set("svix-timestamp", strconv.FormatInt(now.Unix(), 10))
	req.Header.Set("svix-signature", "v1,dGFtcGVyZWQtc2lnbmF0dXJl")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid signature", rec.Body.String())

	var count int64
	require.NoError(t, conn.Model(&userdomain.User{}).Count(&count).Error)
	assert.Zero(t, count, "rejected deliveries must not mutate the store")
}

func TestWebhookMissingHeaders(t *testing.T) {
	engine, _, _ := newWebhookTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/clerk", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid signature", rec.Body.String())
}

func TestWebhookMembershipOrgMissing(t *testing.T) {
	engine, v, conn := newWebhookTestServer(t)
	require.NoError(t, conn.Create(&userdomain.User{ClerkUserID: "u1"}).Error)

	body := `{"type":"organizationMembership.created","data":{"organization":{"id":"org1"},"public_user_data":{"user_id":"u1"}}}`
	rec := postWebhook(engine, v, body)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Error processing webhook: "))
	assert.Contains(t, rec.Body.String(), "organization not found")

	var user userdomain.User
	require.NoError(t, conn.Where("clerk_user_id = ?", "u1").First(&user).Error)
	assert.Nil(t, user.ClerkOrganizationID, "membership must be unchanged after the failure")
}

func TestWebhookUnknownEventType(t *testing.T) {
	engine, v, _ := newWebhookTestServer(t)

	body := `{"type":"session.created","data":{"id":"sess_1"}}`
	rec := postWebhook(engine, v, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Webhook processed successfully", rec.Body.String())
}

func TestWebhookMalformedPayload(t *testing.T) {
	engine, v, _ := newWebhookTestServer(t)

	rec := postWebhook(engine, v, `{"type":`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Error processing webhook: "))
}

func TestWebhookRedeliveredDeleteIsIdempotent(t *testing.T) {
	engine, v, conn := newWebhookTestServer(t)
	require.NoError(t, conn.Create(&userdomain.User{ClerkUserID: "u1"}).Error)

	body := `{"type":"user.deleted","data":{"id":"u1"}}`
	first := postWebhook(engine, v, body)
	assert.Equal(t, http.StatusOK, first.Code)

	second := postWebhook(engine, v, body)
	assert.Equal(t, http.StatusOK, second.Code, "redelivered delete must succeed")

	var count int64
	require.NoError(t, conn.Model(&userdomain.User{}).Count(&count).Error)
	assert.Zero(t, count)
}
