package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bjarke-xyz/startup-dashboard/internal/domain"
)

const msgpackContentType = "application/msgpack"

type apiResponse struct {
	Success bool `json:"success" msgpack:"success"`
	Data    any  `json:"data" msgpack:"data"`
}

type apiErrorResponse struct {
	Success bool   `json:"success" msgpack:"success"`
	Error   string `json:"error" msgpack:"error"`
}

func wantsMsgpack(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, msgpackContentType) || strings.Contains(accept, "application/x-msgpack")
}

// respond writes body as MessagePack when the client asks for it, JSON
// otherwise.
func (s *server) respond(w http.ResponseWriter, r *http.Request, status int, body any) {
	if wantsMsgpack(r) {
		data, err := msgpack.Marshal(body)
		if err != nil {
			s.logger.Error("failed to encode msgpack", "error", err)
			http.Error(w, "failed to encode msgpack", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", msgpackContentType)
		w.WriteHeader(status)
		_, _ = w.Write(data)
		return
	}
	jsonResponse(w, status, body)
}

func jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *server) apiError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.respond(w, r, status, apiErrorResponse{Success: false, Error: message})
}

// statusFor maps store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *server) handleApiStartups(w http.ResponseWriter, r *http.Request) {
	apps, err := s.startups.Query(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		s.apiError(w, r, statusFor(err), err.Error())
		return
	}
	s.respond(w, r, http.StatusOK, apiResponse{Success: true, Data: apps})
}

func (s *server) handleApiStartup(w http.ResponseWriter, r *http.Request) {
	app, err := s.startups.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.apiError(w, r, http.StatusNotFound, "startup not found")
			return
		}
		s.apiError(w, r, statusFor(err), err.Error())
		return
	}
	s.respond(w, r, http.StatusOK, apiResponse{Success: true, Data: app})
}
