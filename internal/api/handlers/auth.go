package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/storelink/woosync/internal/domain/services"
	"github.com/storelink/woosync/pkg/interfaces"
)

// AuthServiceInterface is the slice of AuthService the handler needs.
type AuthServiceInterface interface {
	SignUp(ctx context.Context, req *services.SignUpRequest) (string, error)
	SignIn(ctx context.Context, emailOrUsername, password string) (string, error)
}

// AuthHandler handles signup and signin requests.
type AuthHandler struct {
	authService AuthServiceInterface
	logger      interfaces.LoggerPort
	validate    *validator.Validate
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(authService AuthServiceInterface, logger interfaces.LoggerPort) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
		validate:    validator.New(),
	}
}

type signUpRequest struct {
	AppURL               string `json:"app_url" validate:"required,url"`
	Email                string `json:"email" validate:"required"`
	Username             string `json:"username" validate:"required,min=3,max=64"`
	Password             string `json:"password" validate:"required"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	Token                string `json:"token" validate:"required"`
}

type signInRequest struct {
	EmailOrUsername string `json:"email_or_username" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

type tokenResponse struct {
	JWTToken string `json:"jwt_token"`
}

// decodeStrict decodes the body rejecting unknown fields and trailing data.
func decodeStrict(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected trailing data")
	}
	return nil
}

func (h *AuthHandler) badRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, errorResponse{
		Error:   "bad_request",
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// SignUp handles POST /api/v1/auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeStrict(r, &req); err != nil {
		h.badRequest(w, r, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.badRequest(w, r, "invalid request body")
		return
	}

	token, err := h.authService.SignUp(r.Context(), &services.SignUpRequest{
		AppURL:               req.AppURL,
		Email:                req.Email,
		Username:             req.Username,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
		Token:                req.Token,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRequest):
			h.badRequest(w, r, "invalid request")
		case errors.Is(err, services.ErrEmailTaken):
			h.badRequest(w, r, "existing email")
		case errors.Is(err, services.ErrInvalidEmail):
			h.badRequest(w, r, "invalid email")
		case errors.Is(err, services.ErrInvalidPassword):
			h.badRequest(w, r, "invalid password")
		case errors.Is(err, services.ErrInvalidStoreCredentials):
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, errorResponse{
				Error:   "unauthorized",
				Code:    http.StatusUnauthorized,
				Message: "invalid token or app url",
			})
		default:
			h.logger.ErrorWithContext(r.Context(), "signup failed",
				interfaces.LogField{Key: "error", Value: err.Error()})
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, errorResponse{
				Error:   "internal_error",
				Code:    http.StatusInternalServerError,
				Message: "internal server error",
			})
		}
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, tokenResponse{JWTToken: token})
}

// SignIn handles POST /api/v1/auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeStrict(r, &req); err != nil {
		h.badRequest(w, r, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.badRequest(w, r, "invalid request body")
		return
	}

	token, err := h.authService.SignIn(r.Context(), req.EmailOrUsername, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidLogin) {
			h.badRequest(w, r, "invalid email or password")
			return
		}
		h.logger.ErrorWithContext(r.Context(), "signin failed",
			interfaces.LogField{Key: "error", Value: err.Error()})
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{
			Error:   "internal_error",
			Code:    http.StatusInternalServerError,
			Message: "internal server error",
		})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, tokenResponse{JWTToken: token})
}
