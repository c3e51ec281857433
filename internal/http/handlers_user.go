package http

import (
	"errors"
	"net/http"

	"finease/internal/auth"
	"finease/internal/core"
	"finease/internal/log"
	"finease/internal/storage"
)

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	email := s.emailParam(r)
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	u, err := s.store.GetUser(r.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "failed to get user",
			log.FieldError, err, log.FieldEmail, email)
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, u)
}

type createUserRequest struct {
	core.User
	Password string `json:"password,omitempty"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var hash string
	if req.Password != "" {
		var err error
		hash, err = auth.HashPassword(req.Password)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if err := s.store.UpsertUser(r.Context(), req.User); err != nil {
		if errors.Is(err, core.ErrEmptyEmail) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.ErrorContext(r.Context(), "failed to save user",
			log.FieldError, err, log.FieldEmail, req.Email)
		writeError(w, http.StatusInternalServerError, "failed to save user")
		return
	}

	if hash != "" {
		if err := s.store.SetUserPassword(r.Context(), req.Email, hash); err != nil {
			s.logger.ErrorContext(r.Context(), "failed to save user password",
				log.FieldError, err, log.FieldEmail, req.Email)
			writeError(w, http.StatusInternalServerError, "failed to save user")
			return
		}
	}

	writeJSON(w, http.StatusCreated, req.User)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleSignIn opens a session for users who registered a password. The
// response never distinguishes an unknown email from a wrong password.
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		writeError(w, http.StatusNotImplemented, "sessions are not configured")
		return
	}

	var req signInRequest
	if err := decodeBody(r, &req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, u, err := s.sessions.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		s.logger.ErrorContext(r.Context(), "password sign-in failed",
			log.FieldError, err, log.FieldEmail, req.Email)
		writeError(w, http.StatusInternalServerError, "sign-in failed")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Token: token, User: u})
}

type googleSignInRequest struct {
	Credential string `json:"credential"`
}

type sessionResponse struct {
	Token string    `json:"token"`
	User  core.User `json:"user"`
}

func (s *Server) handleGoogleSignIn(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil || s.google == nil {
		writeError(w, http.StatusNotImplemented, "google sign-in is not configured")
		return
	}

	var req googleSignInRequest
	if err := decodeBody(r, &req); err != nil || req.Credential == "" {
		writeError(w, http.StatusBadRequest, "credential is required")
		return
	}

	token, u, err := s.sessions.SignInWithGoogle(r.Context(), s.google, req.Credential)
	if err != nil {
		s.logger.WarnContext(r.Context(), "google sign-in rejected", log.FieldError, err)
		writeError(w, http.StatusUnauthorized, "sign-in failed")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Token: token, User: u})
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		writeError(w, http.StatusNotImplemented, "sessions are not configured")
		return
	}

	if token := bearerToken(r); token != "" {
		s.sessions.SignOut(r.Context(), token)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		writeError(w, http.StatusNotImplemented, "sessions are not configured")
		return
	}

	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	u, err := s.sessions.Restore(r.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrSessionExpired) {
			writeError(w, http.StatusUnauthorized, "session expired")
			return
		}
		writeError(w, http.StatusUnauthorized, "invalid session")
		return
	}

	writeJSON(w, http.StatusOK, u)
}
