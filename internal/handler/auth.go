package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dukerupert/homebase/internal/auth"
	"github.com/dukerupert/homebase/internal/errutil"
	"github.com/dukerupert/homebase/internal/middleware"
	"github.com/dukerupert/homebase/internal/model"
	"github.com/dukerupert/homebase/internal/observability"
	"github.com/dukerupert/homebase/internal/respond"
)

// AuthService is what the auth endpoints need from the credential service.
type AuthService interface {
	Register(ctx context.Context, in auth.RegisterInput) (*auth.Session, error)
	Login(ctx context.Context, email, password string) (*auth.Session, error)
	CurrentUser(ctx context.Context, token string) (*model.Profile, error)
}

type AuthHandler struct {
	svc     AuthService
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewAuthHandler(svc AuthService, metrics *observability.Metrics, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, metrics: metrics, logger: logger}
}

type registerRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	HouseholdName string `json:"householdName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	User    model.Profile `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.metrics.RecordAuth("register", "invalid")
		respond.Error(w, http.StatusBadRequest, errutil.Title(errutil.CodeValidation), "Invalid JSON body")
		return
	}

	session, err := h.svc.Register(r.Context(), auth.RegisterInput{
		Email:         req.Email,
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		HouseholdName: req.HouseholdName,
	})
	if err != nil {
		h.metrics.RecordAuth("register", outcome(err))
		writeError(w, h.logger, err, "Failed to register user")
		return
	}

	h.metrics.RecordAuth("register", "success")
	writeJSON(w, http.StatusCreated, sessionResponse{
		Message: "User registered successfully",
		Token:   session.Token,
		User:    session.User,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.metrics.RecordAuth("login", "invalid")
		respond.Error(w, http.StatusBadRequest, errutil.Title(errutil.CodeValidation), "Invalid JSON body")
		return
	}

	session, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.RecordAuth("login", outcome(err))
		writeError(w, h.logger, err, "Failed to login")
		return
	}

	h.metrics.RecordAuth("login", "success")
	writeJSON(w, http.StatusOK, sessionResponse{
		Message: "Login successful",
		Token:   session.Token,
		User:    session.User,
	})
}

// Me returns the profile of the token's user. The token is verified here
// rather than by RequireAuth so that a deleted user yields 404.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		respond.Error(w, http.StatusUnauthorized, errutil.Title(errutil.CodeUnauthorized), "No token provided")
		return
	}

	profile, err := h.svc.CurrentUser(r.Context(), token)
	if err != nil {
		writeError(w, h.logger, err, "Failed to load user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": profile})
}

// outcome is the metrics label for a failed auth call.
func outcome(err error) string {
	switch errutil.Code(err) {
	case errutil.CodeValidation:
		return "invalid"
	case errutil.CodeConflict:
		return "conflict"
	case errutil.CodeAuthentication:
		return "rejected"
	default:
		return "error"
	}
}
