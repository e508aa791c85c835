package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"plana-backend/internal/bookings"
	commonerrors "plana-backend/internal/common/errors"
	"plana-backend/internal/common/validation"
	"plana-backend/internal/email"
)

const maxRequestBody = 64 << 10

type testEmailRequest struct {
	To   string `json:"to"`
	Name string `json:"name,omitempty"`
}

type errorResponse struct {
	Error *commonerrors.StandardError `json:"error"`
}

type healthResponse struct {
	Status      string            `json:"status"`
	Environment string            `json:"environment"`
	Checks      map[string]string `json:"checks,omitempty"`
}

func (s *Server) handleBookingConfirmation(w http.ResponseWriter, r *http.Request) {
	var req bookings.ConfirmationRequest
	if err := s.decodeValidated(r, bookingConfirmationSchema, &req); err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.notifier.SendConfirmation(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTestEmail(w http.ResponseWriter, r *http.Request) {
	var req testEmailRequest
	if err := s.decodeValidated(r, testEmailSchema, &req); err != nil {
		s.writeError(w, err)
		return
	}

	name := req.Name
	if name == "" {
		name = req.To
	}
	sentAt := time.Now().UTC().Format(time.RFC3339)

	result := s.mailer.SendTransactionalEmail(r.Context(), email.SendRequest{
		To:      req.To,
		Subject: "PLAN A: email de prueba",
		HTML: fmt.Sprintf("<h1>PLAN A</h1><p>Hola %s, este es un email de prueba.</p><p>Enviado: %s</p>",
			html.EscapeString(name), sentAt),
		Text: fmt.Sprintf("Hola %s, este es un email de prueba.\nEnviado: %s", name, sentAt),
	})
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Environment: string(s.env)}
	status := http.StatusOK
	if len(s.checks) > 0 {
		resp.Checks = make(map[string]string, len(s.checks))
	}
	for name, check := range s.checks {
		if err := check.Ping(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	writeJSON(w, status, resp)
}

// decodeValidated reads the body, checks it against schema and decodes it
// into dst.
func (s *Server) decodeValidated(r *http.Request, schema validation.JSONSchema, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return commonerrors.NewInputParsingError(err)
	}

	if res := validation.ValidateJSON(schema, body); !res.Valid {
		return commonerrors.NewValidationError(res.Summary())
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return commonerrors.NewInputParsingError(err)
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	stdErr := commonerrors.Normalize(err)
	status := commonerrors.HTTPStatus(stdErr.Code)

	fields := map[string]interface{}{
		"code":    string(stdErr.Code),
		"details": stdErr.Details,
		"status":  status,
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", fields)
	} else {
		s.logger.Warn("request rejected", fields)
	}

	writeJSON(w, status, errorResponse{Error: stdErr})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
