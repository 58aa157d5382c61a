package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter assembles the same route rules as main: the token filter on
// every request, public login/signup/hello, and a protected route requiring
// ROLE_USER.
func newTestRouter(t *testing.T) (chi.Router, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	tokens := newTestProvider(t, time.Hour)
	service := NewService(store, NewBcryptHasher(), tokens)
	handlers := NewHandlers(service)

	r := chi.NewRouter()
	r.Use(TokenFilter(tokens))

	r.Get("/api/hello", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "hello")
	})
	r.Post("/api/authenticate", handlers.HandleAuthenticate())
	r.Post("/api/signup", handlers.HandleSignup())

	r.Group(func(r chi.Router) {
		r.Use(RequireAuthenticated)
		r.Get("/api/protected", RequireAuthority(RoleUser, func(w http.ResponseWriter, r *http.Request) {
			p, _ := PrincipalFromContext(r.Context())
			WriteJSON(w, http.StatusOK, map[string]string{"username": p.Username})
		}))
	})

	return r, store
}

func postJSON(t *testing.T, r chi.Router, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func get(r chi.Router, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSignupAuthenticateProtectedFlow(t *testing.T) {
	r, _ := newTestRouter(t)

	// Sign up bob.
	rec := postJSON(t, r, "/api/signup", SignupRequest{Username: "bob", Password: "pw123"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "bob", created.Username)
	assert.Equal(t, []string{RoleUser}, created.Authorities)
	assert.NotContains(t, rec.Body.String(), "password")

	// Authenticate and collect the token.
	rec = postJSON(t, r, "/api/authenticate", LoginRequest{Username: "bob", Password: "pw123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tokenResp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokenResp))
	require.NotEmpty(t, tokenResp.Token)
	assert.Equal(t, "Bearer "+tokenResp.Token, rec.Header().Get("Authorization"))

	// The token opens the protected route.
	rec = get(r, "/api/protected", tokenResp.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"bob"`)

	// The same token with its last character flipped does not.
	last := tokenResp.Token[len(tokenResp.Token)-1]
	flipped := byte('A')
	if last == flipped {
		flipped = 'B'
	}
	tampered := tokenResp.Token[:len(tokenResp.Token)-1] + string(flipped)
	rec = get(r, "/api/protected", tampered)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPublicRouteIgnoresGarbageToken(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := get(r, "/api/hello", "utter.garbage.token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello\n", rec.Body.String())
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := get(r, "/api/protected", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(401), body["status"])
}

func TestHandleAuthenticate_BadCredentials(t *testing.T) {
	r, store := newTestRouter(t)
	seedUser(t, store, "alice", "right", RoleUser)

	rec := postJSON(t, r, "/api/authenticate", LoginRequest{Username: "alice", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestHandleAuthenticate_MissingFields(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := postJSON(t, r, "/api/authenticate", LoginRequest{Username: "alice"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAuthenticate_MalformedBody(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/authenticate", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSignup_Duplicate(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := postJSON(t, r, "/api/signup", SignupRequest{Username: "bob", Password: "pw123"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, r, "/api/signup", SignupRequest{Username: "bob", Password: "pw456"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "username already exists")
}

func TestHandleSignup_Validation(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := postJSON(t, r, "/api/signup", SignupRequest{Username: "", Password: "pw"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, r, "/api/signup", SignupRequest{
		Username: strings.Repeat("u", 51),
		Password: "pw123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
