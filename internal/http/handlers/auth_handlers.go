package handlers

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rogerio-castellano/stocktrack/internal/auth"
	"github.com/rogerio-castellano/stocktrack/internal/models"
)

const SessionCookie = "session_token"

// SessionToken returns the token from the Authorization header, falling back to the session cookie.
func SessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, expires time.Time, now time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(expires.Sub(now).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func readLogin(w http.ResponseWriter, r *http.Request) (UserLogin, error) {
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			return UserLogin{}, err
		}
		return UserLogin{
			Email:      r.PostForm.Get("email"),
			Password:   r.PostForm.Get("password"),
			RememberMe: formBool(r.PostForm.Get("remember_me")),
		}, nil
	}
	var creds UserLogin
	err := readJSON(w, r, &creds)
	return creds, err
}

func readRegister(w http.ResponseWriter, r *http.Request) (RegisterRequest, error) {
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			return RegisterRequest{}, err
		}
		return RegisterRequest{
			Email:    r.PostForm.Get("email"),
			Password: r.PostForm.Get("password"),
			Confirm:  r.PostForm.Get("confirm_password"),
			Name:     r.PostForm.Get("nombre"),
			Role:     models.Role(r.PostForm.Get("rol")),
		}, nil
	}
	var req RegisterRequest
	err := readJSON(w, r, &req)
	return req, err
}

// Login godoc
// @Summary Authenticate and open a session
// @Description Accepts JSON or a form post. The token is also set as the HttpOnly session_token cookie.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param credentials body UserLogin true "Email and password"
// @Success 200 {object} LoginResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Invalid credentials"
// @Failure 423 {string} string "Account temporarily locked"
// @Failure 429 {string} string "Too many requests"
// @Router /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	creds, err := readLogin(w, r)
	if err != nil {
		h.invalidInput(w, err)
		return
	}
	if creds.Email == "" || creds.Password == "" {
		http.Error(w, "missing credentials", http.StatusBadRequest)
		return
	}

	res, err := h.auth.Authenticate(r.Context(), auth.LoginInput{
		Email:      creds.Email,
		Password:   creds.Password,
		ClientIP:   clientIP(r),
		UserAgent:  r.UserAgent(),
		RememberMe: creds.RememberMe,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.setSessionCookie(w, res.Token, res.Session.ExpiresAt, res.Session.IssuedAt)
	h.respond(w, r, http.StatusOK, loginResult(res))
}

// Logout godoc
// @Summary End the current session
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := SessionToken(r); token != "" {
		if err := h.auth.Logout(r.Context(), token); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	h.clearSessionCookie(w)
	h.respond(w, r, http.StatusOK, MessageResponse{Message: "session closed"})
}

// Register godoc
// @Summary Register a new operator account and sign it in
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param user body RegisterRequest true "Account"
// @Success 201 {object} RegisterResult
// @Failure 400 {string} string "Invalid input"
// @Failure 409 {string} string "Email already registered"
// @Failure 429 {string} string "Too many requests"
// @Router /register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := readRegister(w, r)
	if err != nil {
		h.invalidInput(w, err)
		return
	}

	// Public registration never grants a role.
	u, err := h.auth.Register(r.Context(), auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Confirm:  req.Confirm,
		Name:     req.Name,
	}, nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.auth.Authenticate(r.Context(), auth.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		ClientIP:  clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.setSessionCookie(w, res.Token, res.Session.ExpiresAt, res.Session.IssuedAt)
	h.respond(w, r, http.StatusCreated, RegisterResult{Message: "user registered", Token: res.Token, User: toUserResponse(u)})
}

// RequestPasswordReset godoc
// @Summary Email a password reset token
// @Description Always answers 202, whether or not the email is registered.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body PasswordResetRequest true "Email"
// @Success 202 {object} MessageResponse
// @Router /password/forgot [post]
func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequest
	if err := readJSON(w, r, &req); err != nil {
		h.invalidInput(w, err)
		return
	}
	if err := h.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusAccepted, MessageResponse{Message: "if the email is registered, a reset link was sent"})
}

// ResetPassword godoc
// @Summary Set a new password with a reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param reset body PasswordResetConfirm true "Token and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {string} string "Invalid or expired token"
// @Router /password/reset [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetConfirm
	if err := readJSON(w, r, &req); err != nil {
		h.invalidInput(w, err)
		return
	}
	if err := h.auth.ResetPassword(r.Context(), req.Token, req.Password, req.Confirm); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, MessageResponse{Message: "password updated"})
}

// Me godoc
// @Summary The signed-in user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {string} string "Unauthorized"
// @Router /api/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	h.respond(w, r, http.StatusOK, toUserResponse(u))
}

// ChangePassword godoc
// @Summary Change the signed-in user's password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param passwords body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Wrong current password"
// @Router /api/me/password [put]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req ChangePasswordRequest
	if err := readJSON(w, r, &req); err != nil {
		h.invalidInput(w, err)
		return
	}
	if err := h.auth.ChangePassword(r.Context(), u.ID, req.Current, req.New, req.Confirm); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, MessageResponse{Message: "password updated"})
}
