package api

import (
	"encoding/json"
	"net/http"

	"github.com/gatedlife/community-server/internal/auth"
)

// ========== Auth handlers ==========

// HandleLogin resolves a credential to a principal and issues tokens.
// Each principal type authenticates with its own identifier: residents
// by mobile number, admins and super admins by email, security by
// username.
func (s *RESTServer) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type         auth.PrincipalType `json:"type"`
		MobileNumber string             `json:"mobileNumber"`
		Email        string             `json:"email"`
		Username     string             `json:"username"`
		Password     string             `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Type == "" {
		req.Type = auth.PrincipalResident
	}
	if !req.Type.Valid() {
		s.respondError(w, http.StatusBadRequest, "unknown principal type")
		return
	}
	if req.Password == "" {
		s.respondError(w, http.StatusBadRequest, "password is required")
		return
	}

	principal, hash, ok := s.resolveCredential(r, req.Type, req.MobileNumber, req.Email, req.Username)
	if !ok || !s.auth.VerifyPassword(req.Password, hash) {
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	accessToken, refreshToken, err := s.auth.GenerateTokenPair(principal)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to generate tokens")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    int(s.config.JWT.AccessTokenTTL.Seconds()),
		"token_type":    "Bearer",
		"principal":     principal,
	})
}

// resolveCredential looks up the directory record for a login attempt
func (s *RESTServer) resolveCredential(r *http.Request, t auth.PrincipalType, mobile, email, username string) (auth.Principal, string, bool) {
	ctx := r.Context()

	switch t {
	case auth.PrincipalResident:
		user, err := s.store.GetUserByMobile(ctx, mobile)
		if err != nil || user.PasswordHash == nil {
			return auth.Principal{}, "", false
		}
		return auth.Principal{ID: user.ID, Type: t}, *user.PasswordHash, true

	case auth.PrincipalAdmin:
		admin, err := s.store.GetAdminByEmail(ctx, email)
		if err != nil {
			return auth.Principal{}, "", false
		}
		return auth.Principal{ID: admin.ID, Type: t, CommunityID: &admin.CommunityID}, admin.PasswordHash, true

	case auth.PrincipalSuperAdmin:
		admin, err := s.store.GetSuperAdminByEmail(ctx, email)
		if err != nil {
			return auth.Principal{}, "", false
		}
		return auth.Principal{ID: admin.ID, Type: t}, admin.PasswordHash, true

	case auth.PrincipalSecurity:
		sec, err := s.store.GetSecurityByUsername(ctx, username)
		if err != nil {
			return auth.Principal{}, "", false
		}
		return auth.Principal{ID: sec.ID, Type: t, CommunityID: &sec.CommunityID}, sec.PasswordHash, true
	}

	return auth.Principal{}, "", false
}

// HandleRefresh handles token refresh
func (s *RESTServer) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accessToken, refreshToken, err := s.auth.RefreshToken(req.RefreshToken)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    int(s.config.JWT.AccessTokenTTL.Seconds()),
		"token_type":    "Bearer",
	})
}

// HandleHealth is the health check endpoint
func (s *RESTServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
	})
}
