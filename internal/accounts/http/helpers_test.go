package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/assignhub/assignhub/internal/accounts/notify"
	"github.com/assignhub/assignhub/internal/accounts/service"
	"github.com/assignhub/assignhub/internal/accounts/store"
	"github.com/assignhub/assignhub/internal/accounts/store/drivers/sqlite"
	"github.com/assignhub/assignhub/pkg/accountsdk"
	"github.com/assignhub/assignhub/pkg/cryptox"
	"github.com/assignhub/assignhub/pkg/jwtx"
)

const testBootstrapToken = "test-bootstrap-token"

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "accounts-http-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

// captureNotifier records outbound messages so tests can read back the raw
// verification token or one-time code.
type captureNotifier struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (n *captureNotifier) Notify(_ context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return nil
}

func (n *captureNotifier) last(t *testing.T, purpose notify.Purpose) notify.Message {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.messages) - 1; i >= 0; i-- {
		if n.messages[i].Purpose == purpose {
			return n.messages[i]
		}
	}
	t.Fatalf("no message with purpose %q captured", purpose)
	return notify.Message{}
}

// testServer wires a full Router against an in-memory store so handler
// tests exercise the real middleware chain.
type testServer struct {
	router   *Router
	st       store.Store
	notifier *captureNotifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Issuer:  "test-issuer",
		NumKeys: 1,
	})
	require.NoError(t, err)

	notifier := &captureNotifier{}

	sessions := &service.SessionService{
		KeyManager: km,
		Store:      st,
		Issuer:     "test-issuer",
		SessionTTL: time.Hour,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := NewRouter(km.KeySet, km.Verifier, "test-issuer", "test", st, logger)
	r.AccountService = &service.AccountService{
		Store:            st,
		Notifier:         notifier,
		Sessions:         sessions,
		LockoutThreshold: 3,
	}
	r.SessionService = sessions
	r.UserService = &service.UserService{Store: st}
	r.AdminService = &service.AdminService{Store: st, Sessions: sessions}
	r.BootstrapService = &service.BootstrapService{Store: st, Token: testBootstrapToken}
	r.ApplyRoutes()

	return &testServer{router: r, st: st, notifier: notifier}
}

// do sends a request through the router. A non-empty token is attached as a
// bearer credential.
func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst))
}

// errorCode pulls the machine-readable code out of an error response body.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body accountsdk.ErrorResponse
	decodeResponse(t, rec, &body)
	return body.Error
}

func (s *testServer) register(t *testing.T, name, email, password string) accountsdk.RegisterResponse {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/v1/auth/register", accountsdk.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var res accountsdk.RegisterResponse
	decodeResponse(t, rec, &res)
	return res
}

// verifyLastEmail follows the most recently emailed verification link.
func (s *testServer) verifyLastEmail(t *testing.T) {
	t.Helper()

	token := s.notifier.last(t, notify.PurposeEmailVerification).Token
	rec := s.do(t, http.MethodGet, "/v1/auth/verify-email/"+token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func (s *testServer) approve(t *testing.T, userID string) {
	t.Helper()
	require.NoError(t, s.st.Users().SetApproved(context.Background(), userID))
}

// readyUser registers an account and walks it through email verification
// and approval so it can log in.
func (s *testServer) readyUser(t *testing.T, name, email, password string) string {
	t.Helper()

	res := s.register(t, name, email, password)
	s.verifyLastEmail(t)
	s.approve(t, res.UserID)
	return res.UserID
}

// login signs in, completing the one-time code challenge if one is issued.
func (s *testServer) login(t *testing.T, email, password string) accountsdk.AuthResponse {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/v1/auth/login", accountsdk.LoginRequest{
		Email:    email,
		Password: password,
	}, "")

	if rec.Code == http.StatusConflict {
		code := s.notifier.last(t, notify.PurposeLoginCode).Code
		rec = s.do(t, http.MethodPost, "/v1/auth/verify-otp", accountsdk.VerifyOTPRequest{
			Email: email,
			Code:  code,
		}, "")
	}
	require.Equal(t, http.StatusOK, rec.Code)

	var res accountsdk.AuthResponse
	decodeResponse(t, rec, &res)
	return res
}

// bootstrapAdmin creates the initial admin through the bootstrap endpoint
// and logs it in.
func (s *testServer) bootstrapAdmin(t *testing.T, email, password string) accountsdk.AuthResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/bootstrap", jsonBody(t, accountsdk.BootstrapRequest{
		Name:     "Admin",
		Email:    email,
		Password: password,
	}))
	req.Header.Set("X-Bootstrap-Token", testBootstrapToken)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	return s.login(t, email, password)
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}
