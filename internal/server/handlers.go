package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/backend"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/lifecycle"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/mapper"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/session"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, session.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, backend.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, lifecycle.ErrIllegalTransition), errors.Is(err, backend.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, backend.ErrRejected):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, mapper.ErrMapping):
		status = http.StatusBadGateway
	case backend.IsTransient(err):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	respondError(w, status, err.Error())
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.engine.Ready() {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleListOrders(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.engine.ListOrders())
}

func (s *Server) handleLoadMoreOrders(w http.ResponseWriter, r *http.Request) {
	if _, err := s.engine.LoadMoreOrders(r.Context()); err != nil {
		s.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.engine.ListOrders())
}

type searchRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleSearchOrders(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decode(w, r, &req) {
		return
	}
	if _, err := s.engine.SearchOrders(r.Context(), req.Query); err != nil {
		s.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.engine.ListOrders())
}

func (s *Server) handleClearOrderSearch(w http.ResponseWriter, _ *http.Request) {
	s.engine.ClearOrderSearch()
	respondJSON(w, http.StatusOK, s.engine.ListOrders())
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "Missing order ID")
		return
	}

	view, err := s.engine.GetOrder(r.Context(), orderID)
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req session.NewOrder
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := s.engine.CreateOrder(r.Context(), actor(r), req)
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

type transitionRequest struct {
	Status          entity.Status `json:"status"`
	Note            string        `json:"note"`
	ExpectedArrival *time.Time    `json:"expected_arrival"`
	TrackingNumber  string        `json:"tracking_number"`
}

func (t transitionRequest) payload() lifecycle.Payload {
	return lifecycle.Payload{
		Note:            t.Note,
		ExpectedArrival: t.ExpectedArrival,
		TrackingNumber:  t.TrackingNumber,
	}
}

func (s *Server) handleAdvanceOrder(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if !decode(w, r, &req) {
		return
	}
	if !req.Status.Valid() {
		respondError(w, http.StatusBadRequest, "Unknown status "+string(req.Status))
		return
	}

	view, err := s.engine.AdvanceOrder(r.Context(), actor(r), mux.Vars(r)["id"], req.Status, req.payload())
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleRevertOrder(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if !decode(w, r, &req) {
		return
	}

	view, err := s.engine.RevertOrder(r.Context(), actor(r), mux.Vars(r)["id"], req.payload())
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if !decode(w, r, &req) {
		return
	}

	view, err := s.engine.CancelOrder(r.Context(), actor(r), mux.Vars(r)["id"], req.payload())
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := s.engine.RecordPayment(r.Context(), actor(r), mux.Vars(r)["id"], req.Amount)
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleCorrectPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AmountPaid *int64 `json:"amount_paid"`
		Note       string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AmountPaid == nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := s.engine.CorrectPayment(r.Context(), actor(r), mux.Vars(r)["id"], *req.AmountPaid, req.Note)
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleSetFlag(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var (
		view session.OrderView
		err  error
	)
	switch vars["flag"] {
	case "notified":
		view, err = s.engine.MarkNotified(r.Context(), actor(r), vars["id"])
	case "printed":
		view, err = s.engine.MarkPrinted(r.Context(), actor(r), vars["id"])
	default:
		respondError(w, http.StatusBadRequest, "Unknown flag "+vars["flag"])
		return
	}
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleListClients(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.engine.ListClients())
}

func (s *Server) handleLoadMoreClients(w http.ResponseWriter, r *http.Request) {
	if _, err := s.engine.LoadMoreClients(r.Context()); err != nil {
		s.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.engine.ListClients())
}

func (s *Server) handleSearchClients(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decode(w, r, &req) {
		return
	}
	if _, err := s.engine.SearchClients(r.Context(), req.Query); err != nil {
		s.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.engine.ListClients())
}

func (s *Server) handleClearClientSearch(w http.ResponseWriter, _ *http.Request) {
	s.engine.ClearClientSearch()
	respondJSON(w, http.StatusOK, s.engine.ListClients())
}
