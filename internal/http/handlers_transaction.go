package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"finease/internal/core"
	"finease/internal/log"
	"finease/internal/storage"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	email := s.emailParam(r)
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	transactions, err := s.userTransactions(r.Context(), email)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to list transactions",
			log.FieldError, err, log.FieldEmail, email)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	if transactions == nil {
		transactions = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := decodeBody(r, &t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := s.store.CreateTransaction(r.Context(), t)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.ErrorContext(r.Context(), "failed to create transaction",
			log.FieldError, err, log.FieldEmail, t.Email)
		writeError(w, http.StatusInternalServerError, "failed to create transaction")
		return
	}

	s.invalidateUser(t.Email)
	t.ID = id
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var t core.Transaction
	if err := decodeBody(r, &t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.store.UpdateTransaction(r.Context(), id, t); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, http.StatusNotFound, "transaction not found")
		case isValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.ErrorContext(r.Context(), "failed to update transaction",
				log.FieldError, err, log.FieldTransactionID, id)
			writeError(w, http.StatusInternalServerError, "failed to update transaction")
		}
		return
	}

	s.invalidateUser(t.Email)
	// The stored owner wins if the body named someone else
	if stored, err := s.store.GetTransaction(r.Context(), id); err == nil && stored.Email != t.Email {
		s.invalidateUser(stored.Email)
	}
	t.ID = id
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	email, err := s.store.DeleteTransaction(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "failed to delete transaction",
			log.FieldError, err, log.FieldTransactionID, id)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	s.invalidateUser(email)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	email := s.emailParam(r)
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	if cached, ok := s.overviewCache.Get(email); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	transactions, err := s.userTransactions(r.Context(), email)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to compute overview",
			log.FieldError, err, log.FieldEmail, email)
		writeError(w, http.StatusInternalServerError, "failed to compute overview")
		return
	}

	overview := core.ComputeOverview(transactions)
	s.overviewCache.Set(email, overview)
	writeJSON(w, http.StatusOK, overview)
}

// handleCategoryTotal serves the pre-aggregated fast path from the
// category_totals table. The shape matches the local aggregation.
func (s *Server) handleCategoryTotal(w http.ResponseWriter, r *http.Request) {
	email := s.emailParam(r)
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	totals, err := s.store.ListCategoryTotals(r.Context(), email)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to list category totals",
			log.FieldError, err, log.FieldEmail, email)
		writeError(w, http.StatusInternalServerError, "failed to list category totals")
		return
	}

	if totals == nil {
		totals = []core.CategoryTotal{}
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	email := s.emailParam(r)
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	transactions, err := s.userTransactions(r.Context(), email)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to compute breakdown",
			log.FieldError, err, log.FieldEmail, email)
		writeError(w, http.StatusInternalServerError, "failed to compute breakdown")
		return
	}

	summaries := core.AggregateByCategory(transactions, core.TypeExpense)
	if summaries == nil {
		summaries = []core.CategorySummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleHealthScore(w http.ResponseWriter, r *http.Request) {
	email := s.emailParam(r)
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	transactions, err := s.userTransactions(r.Context(), email)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to compute health score",
			log.FieldError, err, log.FieldEmail, email)
		writeError(w, http.StatusInternalServerError, "failed to compute health score")
		return
	}

	writeJSON(w, http.StatusOK, core.ScoreOverview(core.ComputeOverview(transactions)))
}

type reportResponse struct {
	core.Report
	AvailableYears []int `json:"availableYears"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	email := s.emailParam(r)
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	year, ok := filterParam(r.URL.Query().Get("year"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, ok := filterParam(r.URL.Query().Get("month"))
	if !ok || month < core.FilterAll || month > 12 {
		writeError(w, http.StatusBadRequest, "invalid month")
		return
	}

	transactions, err := s.userTransactions(r.Context(), email)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to build report",
			log.FieldError, err, log.FieldEmail, email)
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	resp := reportResponse{
		Report:         core.BuildReport(transactions, year, month),
		AvailableYears: core.AvailableYears(transactions),
	}
	if resp.AvailableYears == nil {
		resp.AvailableYears = []int{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	email := s.emailParam(r)
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	q := r.URL.Query()

	controller := core.NewListController()
	controller.SetSort(core.SortOption(q.Get("sort")))
	controller.SetSearch(q.Get("search"))
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid page")
			return
		}
		controller.SetPage(page)
	}

	transactions, err := s.userTransactions(r.Context(), email)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to build page",
			log.FieldError, err, log.FieldEmail, email)
		writeError(w, http.StatusInternalServerError, "failed to build page")
		return
	}

	page := controller.View(transactions)
	if page.Items == nil {
		page.Items = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, page)
}

// filterParam parses a year/month filter. Empty and "all" mean no filter.
func filterParam(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return core.FilterAll, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidType) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrEmptyEmail)
}
