package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/taskdesk/internal/common"
)

const (
	msgRegistered    = "User created successfully"
	msgUserExists    = "User already exists, you can login"
	msgLoggedIn      = "Login successful"
	msgAuthFailed    = "Auth failed"
	msgServerError   = "Server error"
	msgBadBody       = "Invalid request body"
	msgTokenRequired = "Unauthorized, JWT token is required"
	msgTokenInvalid  = "Unauthorized, JWT token is wrong or expired"
	msgTooMany       = "Too many requests"
)

// statusResponse is the envelope for every auth reply and every failure.
type statusResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

type loginResponse struct {
	statusResponse
	Token string `json:"token"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *HTTPServer) writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error(ctx, "failed to encode JSON response", "error", err)
	}
}

func (s *HTTPServer) writeFailure(ctx context.Context, w http.ResponseWriter, status int, message string) {
	s.writeJSON(ctx, w, status, statusResponse{Message: message})
}

// writeServiceError maps service sentinels to HTTP statuses. Anything not
// recognised is logged with detail and reported as a bare server error.
func (s *HTTPServer) writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		s.writeFailure(ctx, w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, common.ErrorValidation):
		s.writeFailure(ctx, w, http.StatusBadRequest, "name, email and password are required")
	case errors.Is(err, common.ErrorUserExists):
		s.writeFailure(ctx, w, http.StatusConflict, msgUserExists)
	case errors.Is(err, common.ErrorUnauthorized):
		s.writeFailure(ctx, w, http.StatusForbidden, msgAuthFailed)
	default:
		s.logger.Error(ctx, "request failed", "error", err, "request_id", RequestIDFromContext(ctx))
		s.writeFailure(ctx, w, http.StatusInternalServerError, msgServerError)
	}
}
