package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/taskapi/internal/httputil"
	"github.com/redmonkez12/taskapi/internal/logging"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// UserResponse represents a user in the registration response
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoginUserResponse represents a user in the login response
type LoginUserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// RegisterResponse represents the registration response
type RegisterResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token string            `json:"token"`
	User  LoginUserResponse `json:"user"`
}

// IdentityResponse is the caller as seen by the token
type IdentityResponse struct {
	User struct {
		ID       uuid.UUID `json:"id"`
		Username string    `json:"username"`
	} `json:"user"`
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create a new account and receive an access token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration credentials"
// @Success      201 {object} RegisterResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid body"
// @Failure      409 {object} httputil.ErrorResponse "Email or username already in use"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req RegisterRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		httputil.RespondValidationError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondValidationError(w, err)
		return
	}

	result, err := h.service.Register(r.Context(), req)
	if err != nil {
		var usernameErr *UsernameTakenError
		switch {
		case errors.Is(err, ErrEmailTaken):
			logger.Warn("registration failed: email already in use")
			httputil.RespondErrorWithCode(w, "Email is already registered", httputil.CodeEmailAlreadyInUse, http.StatusConflict)
		case errors.As(err, &usernameErr):
			logger.Warn("registration failed: username already in use", "username", usernameErr.Username)
			httputil.RespondJSON(w, httputil.ErrorResponse{
				Error:       httputil.CodeUsernameAlreadyInUse,
				Message:     "Username is already taken",
				Suggestions: usernameErr.Suggestions,
			}, http.StatusConflict)
		default:
			logger.Error("registration failed: internal error", "error", err.Error())
			httputil.RespondInternalError(w)
		}
		return
	}

	logger.Info("user registered successfully", "user_id", result.User.ID)

	httputil.RespondJSON(w, RegisterResponse{
		Token: result.Token,
		User: UserResponse{
			ID:        result.User.ID,
			Username:  result.User.Username,
			Email:     result.User.Email,
			CreatedAt: result.User.CreatedAt,
		},
	}, http.StatusCreated)
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate with email and password and receive an access token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} LoginResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid body"
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondValidationError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondValidationError(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("login failed: invalid credentials")
			httputil.RespondErrorWithCode(w, "Invalid email or password", httputil.CodeInvalidCredentials, http.StatusUnauthorized)
			return
		}
		logger.Error("login failed: internal error", "error", err.Error())
		httputil.RespondInternalError(w)
		return
	}

	logger.Info("user logged in successfully", "user_id", result.User.ID)

	httputil.RespondJSON(w, LoginResponse{
		Token: result.Token,
		User: LoginUserResponse{
			ID:       result.User.ID,
			Username: result.User.Username,
			Email:    result.User.Email,
		},
	}, http.StatusOK)
}

// Me returns the account behind the caller's token
// @Summary      Current identity
// @Description  Returns the id and username of the account behind the verified access token.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} IdentityResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "Authentication required", httputil.CodeAuthRequired, http.StatusUnauthorized)
		return
	}

	account, err := h.service.Me(r.Context(), identity)
	if err != nil {
		if errors.Is(err, ErrAccountGone) {
			httputil.RespondErrorWithCode(w, "Invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}
		logging.GetLoggerFromContext(r.Context()).Error("failed to load current user", "user_id", identity.UserID, "error", err.Error())
		httputil.RespondInternalError(w)
		return
	}

	var resp IdentityResponse
	resp.User.ID = account.ID
	resp.User.Username = account.Username
	httputil.RespondJSON(w, resp, http.StatusOK)
}
