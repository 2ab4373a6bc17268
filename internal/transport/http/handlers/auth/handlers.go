package authhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Yamanxl9/employee-management-system/internal/domain/audit"
	"github.com/Yamanxl9/employee-management-system/internal/domain/auth"
	"github.com/Yamanxl9/employee-management-system/internal/platform/requestctx"
	"github.com/Yamanxl9/employee-management-system/internal/transport/http/api"
	"github.com/Yamanxl9/employee-management-system/internal/transport/http/middleware"
	"github.com/Yamanxl9/employee-management-system/internal/transport/http/shared"
)

type Handler struct {
	Users    *auth.Store
	Audit    *audit.Service
	Secret   string
	TokenTTL time.Duration
}

func NewHandler(users *auth.Store, auditSvc *audit.Service, secret string, tokenTTL time.Duration) *Handler {
	return &Handler{Users: users, Audit: auditSvc, Secret: secret, TokenTTL: tokenTTL}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string           `json:"token"`
	User  auth.UserContext `json:"user"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("username", payload.Username, "username is required")
	v.Required("password", payload.Password, "password is required")
	if v.Reject(w, requestID) {
		return
	}

	user, err := h.Users.FindByUsername(r.Context(), strings.TrimSpace(payload.Username))
	if errors.Is(err, auth.ErrUserNotFound) {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "login failed", requestID)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
		return
	}

	claims := auth.Claims{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		Role:     user.Role,
	}
	token, err := auth.GenerateToken(h.Secret, claims, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestID)
		return
	}

	h.Audit.Record(r.Context(), audit.Entry{
		Action:    "login",
		Detail:    "user logged in",
		Username:  user.Username,
		IP:        shared.ClientIP(r),
		UserAgent: r.UserAgent(),
		RequestID: requestID,
	})

	api.Success(w, loginResponse{
		Token: token,
		User:  auth.UserContext{UserID: claims.UserID, Username: user.Username, Role: user.Role},
	}, requestID)
}

// HandleVerifyToken checks the presented bearer token and echoes its claims.
func (h *Handler) HandleVerifyToken(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	token := bearerToken(r)
	if token == "" {
		var payload struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			token = strings.TrimSpace(payload.Token)
		}
	}
	if token == "" {
		api.Fail(w, http.StatusBadRequest, "missing_token", "no token provided", requestID)
		return
	}

	claims, err := auth.ParseToken(h.Secret, token)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_token", "token is invalid or expired", requestID)
		return
	}

	// A token can outlive its account. Reject tokens whose user no longer
	// exists; an unreachable database falls back to the signed claims so
	// verification stays available.
	if _, err := h.Users.FindByID(r.Context(), claims.UserID); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			api.Fail(w, http.StatusUnauthorized, "invalid_token", "token is invalid or expired", requestID)
			return
		}
		slog.Warn("user lookup failed during token verification", "error", err, "requestId", requestID)
	}

	api.Success(w, map[string]any{
		"valid": true,
		"user": auth.UserContext{
			UserID:   claims.UserID,
			Username: claims.Username,
			Role:     claims.Role,
		},
		"expiresAt": claims.ExpiresAt.Time.UTC(),
	}, requestID)
}

// HandleLogout records the event; tokens are stateless so there is nothing to
// revoke server side.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	username := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		username = user.Username
	}
	h.Audit.Record(r.Context(), audit.Entry{
		Action:    "logout",
		Detail:    "user logged out",
		Username:  username,
		IP:        shared.ClientIP(r),
		UserAgent: r.UserAgent(),
		RequestID: requestID,
	})

	api.Success(w, map[string]string{"message": "logged out"}, requestID)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
