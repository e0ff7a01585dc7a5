package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"blogrig-server/auth"
	"blogrig-server/config"
	"blogrig-server/db"
	"blogrig-server/db/memstore"
	"blogrig-server/email"
	"blogrig-server/handlers"
	"blogrig-server/mrr"
	"blogrig-server/routes"
	"blogrig-server/shared"

	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "test-secret"
	testPassword = "password123"
)

type recordedMrrCall struct {
	Method   string
	Endpoint string
	Body     map[string]interface{}
}

type fakeMarketplace struct {
	mu     sync.Mutex
	calls  []recordedMrrCall
	status int
	body   string
}

func (f *fakeMarketplace) respond(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status, f.body = status, body
}

func (f *fakeMarketplace) recorded() []recordedMrrCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedMrrCall(nil), f.calls...)
}

func (f *fakeMarketplace) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	call := recordedMrrCall{Method: r.Method, Endpoint: r.URL.RequestURI()}
	_ = json.NewDecoder(r.Body).Decode(&call.Body)

	f.mu.Lock()
	f.calls = append(f.calls, call)
	status, body := f.status, f.body
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

type fakeSender struct {
	name      string
	messageId string
	err       error
	sent      []email.Message
}

func (s *fakeSender) Name() string { return s.name }

func (s *fakeSender) Send(ctx context.Context, msg email.Message) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.sent = append(s.sent, msg)
	return s.messageId, nil
}

type testEnv struct {
	t           *testing.T
	store       *memstore.Store
	tokens      *auth.TokenService
	router      http.Handler
	marketplace *fakeMarketplace
	ses         *fakeSender
	smtp        *fakeSender
	config      *config.Config
	clock       time.Time
}

type envOption func(*testEnv, *handlers.Deps)

func withoutEmail() envOption {
	return func(env *testEnv, deps *handlers.Deps) {
		deps.SES = nil
		deps.SMTP = nil
	}
}

func withRestamp(restamp bool) envOption {
	return func(env *testEnv, deps *handlers.Deps) {
		env.config.RestampOnPublish = restamp
	}
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	env := &testEnv{
		t:           t,
		store:       memstore.New(),
		tokens:      auth.NewTokenService(testSecret, time.Hour),
		marketplace: &fakeMarketplace{status: http.StatusOK, body: `{"success":true,"data":{}}`},
		ses:         &fakeSender{name: email.ProviderSES, messageId: "ses-message-id"},
		smtp:        &fakeSender{name: email.ProviderSMTP, messageId: "<smtp-message-id@localhost>"},
		config: &config.Config{
			GoEnv:            "test",
			BcryptCost:       4,
			RestampOnPublish: true,
			Ses:              config.SesConfig{From: "from@example.com", To: "hr@example.com"},
			Smtp:             config.SmtpConfig{From: "smtp@example.com", To: "to@example.com"},
		},
		clock: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	server := httptest.NewServer(env.marketplace)
	t.Cleanup(server.Close)

	client := mrr.NewClient(server.URL, mrr.NewSigner("key", "secret"))

	deps := handlers.Deps{
		Store:  env.store,
		Tokens: env.tokens,
		Mrr:    mrr.NewService(client),
		SES:    env.ses,
		SMTP:   env.smtp,
		Config: env.config,
	}
	for _, opt := range opts {
		opt(env, &deps)
	}

	h := handlers.New(deps).WithClock(func() time.Time { return env.clock })
	env.router = routes.NewRouter(h, routes.Options{})

	return env
}

// seedUser inserts a user directly and returns it with a valid token.
func (env *testEnv) seedUser(username string, role shared.Role) (*db.User, string) {
	env.t.Helper()

	hash, err := auth.HashPassword(testPassword, 4)
	require.NoError(env.t, err)

	user := &db.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  hash,
		FirstName: "First",
		LastName:  "Last",
		Role:      role,
		IsActive:  true,
	}
	require.NoError(env.t, env.store.CreateUser(context.Background(), user))

	token, err := env.tokens.Issue(user.Id)
	require.NoError(env.t, err)

	return user, token
}

type response struct {
	Code int
	Raw  []byte
	Body map[string]interface{}
}

func (env *testEnv) do(method, path, token string, body interface{}) response {
	env.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(env.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	res := response{Code: rec.Code, Raw: rec.Body.Bytes()}
	if len(res.Raw) > 0 {
		_ = json.Unmarshal(res.Raw, &res.Body)
	}
	return res
}

func obj(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()
	m, ok := v.(map[string]interface{})
	require.True(t, ok, "expected object, got %T", v)
	return m
}

func list(t *testing.T, v interface{}) []interface{} {
	t.Helper()
	l, ok := v.([]interface{})
	require.True(t, ok, "expected array, got %T", v)
	return l
}
