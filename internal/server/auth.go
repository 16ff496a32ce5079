package server

import (
	"encoding/json"
	"io"
	"net/http"

	"foliocms/internal/app"
	"foliocms/pkg/domain"
)

const maxJSONBody = 1 << 20

func decodeJSON(r *http.Request, dst any) bool {
	return json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(dst) == nil
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.app.AllowSignup(s.clientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "too many signup attempts, try again later")
		return
	}
	var in app.SignUpInput
	if !decodeJSON(r, &in) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	result, err := s.app.SignUp(in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.app.AllowSignin(s.clientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "too many signin attempts, try again later")
		return
	}
	var in app.SignInInput
	if !decodeJSON(r, &in) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	result, err := s.app.SignIn(in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Tokens are stateless, so signout is an acknowledgement: the client drops
// the token and it ages out at expiry.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	s.withPrincipal(func(w http.ResponseWriter, _ *http.Request, p *domain.Principal) {
		writeJSON(w, http.StatusOK, map[string]any{"user": p})
	})(w, r)
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var in struct {
		Email string `json:"email"`
	}
	if !decodeJSON(r, &in) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.app.ResetPassword(in.Email); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "if the email exists, reset instructions have been sent",
	})
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	s.withPrincipal(func(w http.ResponseWriter, r *http.Request, p *domain.Principal) {
		var in struct {
			CurrentPassword string `json:"currentPassword"`
			NewPassword     string `json:"newPassword"`
		}
		if !decodeJSON(r, &in) {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.app.UpdatePassword(p, in.CurrentPassword, in.NewPassword); err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})(w, r)
}
