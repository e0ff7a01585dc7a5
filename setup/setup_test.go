package setup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"blogrig-server/auth"
	"blogrig-server/config"
	"blogrig-server/db"
	"blogrig-server/db/memstore"
	"blogrig-server/notify"
	"blogrig-server/routes"
	"blogrig-server/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secret"

func testConfig() *config.Config {
	return &config.Config{
		GoEnv:      "test",
		JwtSecret:  testSecret,
		JwtExpire:  time.Hour,
		BcryptCost: 4,
		Mrr:        config.MrrConfig{ApiUrl: "http://127.0.0.1:0"},
	}
}

func serve(t *testing.T, h http.Handler, method, path, token string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func seedAdmin(t *testing.T, store *memstore.Store) string {
	t.Helper()

	admin := &db.User{Username: "admin", Email: "admin@example.com", Password: "x", FirstName: "A", LastName: "B", Role: shared.RoleAdmin, IsActive: true}
	require.NoError(t, store.CreateUser(context.Background(), admin))

	token, err := auth.NewTokenService(testSecret, time.Hour).Issue(admin.Id)
	require.NoError(t, err)
	return token
}

func TestNewHandlerWithoutEmailProviders(t *testing.T) {
	t.Cleanup(func() { notify.Register(nil) })

	h := NewHandler(testConfig(), memstore.New())
	r := routes.NewRouter(h, routes.Options{})

	code, body := serve(t, r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", body["status"])
}

func TestNewHandlerMarketplaceCredentials(t *testing.T) {
	t.Cleanup(func() { notify.Register(nil) })

	marketplace := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"username":"miner"}}`))
	}))
	t.Cleanup(marketplace.Close)

	t.Run("unset credentials disable the routes", func(t *testing.T) {
		store := memstore.New()
		token := seedAdmin(t, store)
		r := routes.NewRouter(NewHandler(testConfig(), store), routes.Options{})

		code, body := serve(t, r, http.MethodGet, "/api/mrr/whoami", token)
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "Marketplace API is not configured", body["message"])
	})

	t.Run("configured credentials reach the marketplace", func(t *testing.T) {
		cfg := testConfig()
		cfg.Mrr = config.MrrConfig{ApiUrl: marketplace.URL, ApiKey: "key", ApiSecret: "secret"}

		store := memstore.New()
		token := seedAdmin(t, store)
		r := routes.NewRouter(NewHandler(cfg, store), routes.Options{})

		code, body := serve(t, r, http.MethodGet, "/api/mrr/whoami", token)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "miner", body["data"].(map[string]interface{})["username"])
	})
}

func TestNewHandlerRegistersNotifier(t *testing.T) {
	t.Cleanup(func() { notify.Register(nil) })

	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	NewHandler(testConfig(), memstore.New())

	notify.Notify(notify.Event{Severity: notify.SeverityError, Err: errors.New("db down"), RequestId: "req-7"})
	assert.Contains(t, buf.String(), "[ERROR] [req-7]: db down")
}
