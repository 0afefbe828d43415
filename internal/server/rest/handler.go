package rest

import (
	"encoding/json"
	"net/http"
)

const maxBodyBytes = 1 << 20

// Product is the placeholder resource behind the access gate.
type Product struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

var placeholderProduct = Product{Name: "mobile", Price: 10000}

type healthResponse struct {
	Status string `json:"status"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ValidationError{Message: msgBadBody}
	}
	return nil
}

func (s *HTTPServer) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeServiceError(ctx, w, err)
		return
	}
	if err := req.validate(); err != nil {
		s.writeServiceError(ctx, w, err)
		return
	}

	user, err := s.users.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		s.writeServiceError(ctx, w, err)
		return
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	s.writeJSON(ctx, w, http.StatusCreated, statusResponse{Message: msgRegistered, Success: true})
}

func (s *HTTPServer) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeServiceError(ctx, w, err)
		return
	}
	if err := req.validate(); err != nil {
		s.writeServiceError(ctx, w, err)
		return
	}

	res, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		s.writeServiceError(ctx, w, err)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, loginResponse{
		statusResponse: statusResponse{Message: msgLoggedIn, Success: true},
		Token:          res.Token,
		Email:          res.Email,
		Name:           res.Name,
	})
}

func (s *HTTPServer) Products(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if id, ok := IdentityFromContext(ctx); ok {
		s.logger.Debug(ctx, "products requested", "user_id", id.UserID)
	}
	s.writeJSON(ctx, w, http.StatusOK, placeholderProduct)
}

func (s *HTTPServer) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.health != nil {
		if err := s.health.PingContext(ctx); err != nil {
			s.logger.Warn(ctx, "health check failed", "error", err)
			s.writeJSON(ctx, w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
	}
	s.writeJSON(ctx, w, http.StatusOK, healthResponse{Status: "ok"})
}
