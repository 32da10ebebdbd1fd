package handler

import (
	"net/http"

	"github.com/pr-poehali-dev/cs2-gaming-public/internal/api/middleware"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/api/response"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/services/login"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/services/session"
)

// defaultReturnURL is used when the client omits return_url on login
const defaultReturnURL = "https://your-site.com"

// AuthHandler handles the authentication endpoint, dispatched by the
// action query parameter
type AuthHandler struct {
	loginService *login.Service
	sessions     *session.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(loginService *login.Service, sessions *session.Service) *AuthHandler {
	return &AuthHandler{
		loginService: loginService,
		sessions:     sessions,
	}
}

// Handle dispatches GET /api/auth?action=...
func (h *AuthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("action") {
	case "verify":
		h.verify(w, r)
	case "logout":
		h.logout(w, r)
	case "callback":
		h.callback(w, r)
	default:
		h.login(w, r)
	}
}

// login returns the Steam redirect URL. No server-side state is
// created at this step.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	returnURL := r.URL.Query().Get("return_url")
	if returnURL == "" {
		returnURL = defaultReturnURL
	}

	response.JSON(w, http.StatusOK, response.LoginResponse{
		RedirectURL: h.loginService.LoginURL(returnURL),
	})
}

// callback executes the login state machine on the Steam redirect back
func (h *AuthHandler) callback(w http.ResponseWriter, r *http.Request) {
	result, err := h.loginService.Callback(r.Context(), r.URL.Query())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CallbackResponse{
		Success:      true,
		SessionToken: result.Session.Token,
		User:         response.UserFromModel(result.Identity),
	})
}

// verify returns the user summary if the presented session is valid
func (h *AuthHandler) verify(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractToken(r)
	if token == "" {
		WriteError(w, NewUnauthorizedError())
		return
	}

	identity, err := h.sessions.Verify(r.Context(), token)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.VerifyResponse{
		Valid: true,
		User:  response.UserFromModel(identity),
	})
}

// logout revokes the session if a token is present; always 200
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.ExtractToken(r); token != "" {
		if err := h.sessions.Revoke(r.Context(), token); err != nil {
			WriteError(w, err)
			return
		}
	}

	response.JSON(w, http.StatusOK, response.LogoutResponse{Success: true})
}
