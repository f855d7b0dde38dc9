package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"cashlens/internal/core"
	"cashlens/internal/log"
	"cashlens/internal/services"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toSummary(s.svc.Summary()))
}

// handleListExpenses serves the derived view. Filter and sort come from
// the query; the result is cached per query until the next mutation.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	filter := strings.TrimSpace(r.URL.Query().Get("category"))
	if filter == "" {
		filter = core.FilterAll
	}
	sortOpt := core.SortOption(strings.TrimSpace(r.URL.Query().Get("sort")))
	if sortOpt == "" {
		sortOpt = core.SortDateDesc
	}
	if !sortOpt.Valid() {
		respondError(w, http.StatusBadRequest, "unknown sort option: "+string(sortOpt))
		return
	}
	if filter != core.FilterAll {
		if _, err := core.ParseCategory(filter); err != nil {
			respondError(w, http.StatusBadRequest, "unknown category: "+filter)
			return
		}
	}

	key := filter + "|" + string(sortOpt)
	if cached, ok := s.viewCache.Get(key); ok {
		slog.DebugContext(r.Context(), "View cache hit", log.NewFields().
			WithComponent(log.ComponentHTTP).
			WithView(filter, string(sortOpt)).
			ToSlice()...)
		respondJSON(w, http.StatusOK, cached)
		return
	}

	resp := toExpenses(s.svc.View(filter, sortOpt))
	s.viewCache.Set(key, resp)
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	const key = "report"
	if cached, ok := s.reportCache.Get(key); ok {
		slog.DebugContext(r.Context(), "Report cache hit", log.FieldComponent, log.ComponentHTTP)
		respondJSON(w, http.StatusOK, cached)
		return
	}

	resp := toReport(s.svc.Summary(), s.svc.Breakdown())
	s.reportCache.Set(key, resp)
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetIncome(w http.ResponseWriter, r *http.Request) {
	var req setIncomeRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cents, err := core.ParseNonNegativeCents(strings.TrimSpace(req.Amount))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid income amount: "+req.Amount)
		return
	}
	ledger, err := s.svc.SetIncome(r.Context(), cents)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	s.invalidateViews()
	respondJSON(w, http.StatusOK, toSummary(core.Summarize(ledger)))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid amount: "+req.Amount)
		return
	}
	exp, _, err := s.svc.AddExpense(r.Context(), sanitizeInput(req.Title), cents, req.Category)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	s.invalidateViews()
	respondJSON(w, http.StatusCreated, toExpense(exp))
}

// handleDeleteExpense removes an expense by ID. Deleting an absent ID
// still answers 204, mirroring the mutation's no-op semantics.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid expense id")
		return
	}
	if _, err := s.svc.DeleteExpense(r.Context(), id); err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	s.invalidateViews()
	w.WriteHeader(http.StatusNoContent)
}

// handleClearRequest arms the confirmation gate; the destructive reset
// only runs once /api/clear/confirm follows.
func (s *Server) handleClearRequest(w http.ResponseWriter, r *http.Request) {
	const msg = "Clear all expenses and reset income? This cannot be undone."
	s.gate.Request(msg, func(ctx context.Context) error {
		_, err := s.svc.ClearAll(ctx)
		return err
	})
	respondJSON(w, http.StatusAccepted, pendingResponse{Message: msg})
}

func (s *Server) handleClearConfirm(w http.ResponseWriter, r *http.Request) {
	if err := s.gate.Confirm(r.Context()); err != nil {
		if errors.Is(err, services.ErrNoPendingConfirmation) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		s.respondDomainError(w, r, err)
		return
	}

	s.invalidateViews()
	respondJSON(w, http.StatusOK, toSummary(s.svc.Summary()))
}

func (s *Server) handleClearCancel(w http.ResponseWriter, r *http.Request) {
	s.gate.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

// respondDomainError maps domain errors to HTTP statuses: validation
// failures are the client's fault, anything else is ours.
func (s *Server) respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	if core.IsValidation(err) {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	slog.ErrorContext(r.Context(), "Request failed",
		log.FieldComponent, log.ComponentHTTP,
		log.FieldError, err,
		log.FieldPath, r.URL.Path)
	respondError(w, http.StatusInternalServerError, "internal error")
}
