package chi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/caskbook/internal/logger"
	authuc "github.com/kailas-cloud/caskbook/internal/usecase/auth"
)

const tokenTypeBearer = "bearer"

// Register handles POST /auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	tokens, err := s.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse(&tokens))
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	tokens, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse(&tokens))
}

// Refresh handles POST /auth/refresh.
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	tokens, err := s.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse(&tokens))
}

// Logout handles POST /auth/logout. Tokens are stateless; the client drops them.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	logger.FromContextOr(r.Context(), s.logger).Info("User logged out",
		zap.String("user_id", UserIDFromContext(r.Context())))
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	u, err := s.auth.Me(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userToAPI(&u))
}

// ChangePassword handles PUT /auth/password.
func (s *Server) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	err := s.auth.ChangePassword(r.Context(), UserIDFromContext(r.Context()), req.CurrentPassword, req.NewPassword)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RequestPasswordReset handles POST /auth/password/reset.
func (s *Server) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := s.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "If the email exists, a reset link has been sent",
	})
}

func authResponse(t *authuc.Tokens) AuthResponse {
	resp := AuthResponse{
		AccessToken: t.AccessToken,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   t.ExpiresIn,
		User:        userToAPI(&t.User),
	}
	if t.RefreshToken != "" {
		rt := t.RefreshToken
		resp.RefreshToken = &rt
	}
	return resp
}
