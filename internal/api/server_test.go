package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatedlife/community-server/internal/auth"
	"github.com/gatedlife/community-server/internal/config"
	"github.com/gatedlife/community-server/internal/workflow"
)

func testServer() *RESTServer {
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:          "test-secret",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: time.Hour,
		},
	}
	return &RESTServer{
		config: cfg,
		auth:   auth.NewJWTManager(&cfg.JWT),
	}
}

func bearerToken(t *testing.T, s *RESTServer, p auth.Principal) string {
	t.Helper()
	access, _, err := s.auth.GenerateTokenPair(p)
	require.NoError(t, err)
	return "Bearer " + access
}

func TestAuthMiddleware(t *testing.T) {
	s := testServer()

	var seen auth.Principal
	handler := s.authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.principal(r)
		require.True(t, ok)
		seen = p
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "token abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid token", bearerToken(t, s, auth.Principal{ID: 42, Type: auth.PrincipalResident}), http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/me/apartments", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
			assert.Equal(t, tc.status, w.Code)
		})
	}

	assert.Equal(t, int64(42), seen.ID)
	assert.Equal(t, auth.PrincipalResident, seen.Type)
}

func TestRequireTypes(t *testing.T) {
	s := testServer()

	handler := s.authMiddleware(s.requireTypes(auth.PrincipalAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/apartment-requests", nil)
	r.Header.Set("Authorization", bearerToken(t, s, auth.Principal{ID: 42, Type: auth.PrincipalResident}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)

	communityID := int64(1)
	r = httptest.NewRequest(http.MethodGet, "/api/v1/apartment-requests", nil)
	r.Header.Set("Authorization", bearerToken(t, s, auth.Principal{ID: 9, Type: auth.PrincipalAdmin, CommunityID: &communityID}))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRespondWorkflowError(t *testing.T) {
	s := testServer()

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", workflow.NotFound("dispute not found"), http.StatusNotFound},
		{"forbidden", workflow.Forbidden("not a party"), http.StatusForbidden},
		{"invalid argument", workflow.InvalidArgument("reason is required"), http.StatusBadRequest},
		{"conflict", workflow.Conflict("request already pending"), http.StatusConflict},
		{"invalid state", workflow.InvalidState("already reviewed"), http.StatusUnprocessableEntity},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.respondWorkflowError(w, tc.err)
			assert.Equal(t, tc.status, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
			assert.NotEmpty(t, body["errorKind"])
		})
	}

	// Internal details never leak to the client
	w := httptest.NewRecorder()
	s.respondWorkflowError(w, errors.New("pq: connection refused"))
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "internal server error", body["error"])
}
