package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"classified-marketplace/internal/domain"
	"classified-marketplace/internal/domain/model"
	"classified-marketplace/internal/infra/logging"
	"classified-marketplace/internal/infra/metrics"
	"classified-marketplace/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeDomainError maps sentinel errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body so store errors never leak.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrAlreadyProcessed):
		http.Error(w, "Already processed", http.StatusConflict)
	case errors.Is(err, domain.ErrUnauthorized):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, domain.ErrUnknownPlan):
		http.Error(w, "Unknown plan", http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrMalformedDurationCode):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

type loginRequest struct {
	APIKey  string `json:"api_key"`
	AdminID string `json:"admin_id"`
}

// loginHandler exchanges the static admin API key for a short-lived session
// cookie bound to the acting admin's identity.
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.apiKey == "" {
		s.log.Error().Msg("Admin API key is not configured")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.APIKey != s.apiKey || req.AdminID == "" {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	token, err := s.auth.Mint(w, req.AdminID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to mint admin session")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// statsHandler serves marketplace totals and revenue.
func statsHandler(statsUC usecase.StatsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		users, activeByPlan, pendingPayments, err := statsUC.Totals(ctx)
		if err != nil {
			http.Error(w, "Failed to get totals", http.StatusInternalServerError)
			return
		}

		week, month, year, err := statsUC.Revenue(ctx)
		if err != nil {
			http.Error(w, "Failed to get revenue", http.StatusInternalServerError)
			return
		}

		response := struct {
			TotalUsers          int            `json:"total_users"`
			ActiveMembersByPlan map[string]int `json:"active_members_by_plan"`
			PendingPayments     int            `json:"pending_payments"`
			Revenue             struct {
				Week  int64 `json:"week"`
				Month int64 `json:"month"`
				Year  int64 `json:"year"`
			} `json:"revenue_lkr"`
		}{
			TotalUsers:          users,
			ActiveMembersByPlan: activeByPlan,
			PendingPayments:     pendingPayments,
		}
		response.Revenue.Week = week
		response.Revenue.Month = month
		response.Revenue.Year = year

		writeJSON(w, http.StatusOK, response)
	}
}

// pendingPaymentsHandler lists payments awaiting manual review, oldest first.
func pendingPaymentsHandler(paymentUC usecase.PaymentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = 50
		}

		payments, err := paymentUC.ListPending(ctx, logging.UserID(ctx), limit)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		response := struct {
			Data []*model.Payment `json:"data"`
		}{Data: payments}
		writeJSON(w, http.StatusOK, response)
	}
}

func approvePaymentHandler(approvalUC usecase.ApprovalUseCase) func(http.ResponseWriter, *http.Request, string) {
	return func(w http.ResponseWriter, r *http.Request, id string) {
		ctx := r.Context()

		p, err := approvalUC.Approve(ctx, logging.UserID(ctx), id)
		if err != nil {
			metrics.IncPaymentProcessed("error", "unknown")
			writeDomainError(w, err)
			return
		}

		metrics.IncPaymentProcessed("approved", string(p.PaymentFor))
		metrics.AddPaymentRevenue(p.Amount)
		metrics.IncEntitlementActivated(string(p.PaymentFor))
		writeJSON(w, http.StatusOK, p)
	}
}

func rejectPaymentHandler(approvalUC usecase.ApprovalUseCase) func(http.ResponseWriter, *http.Request, string) {
	return func(w http.ResponseWriter, r *http.Request, id string) {
		ctx := r.Context()

		p, err := approvalUC.Reject(ctx, logging.UserID(ctx), id)
		if err != nil {
			metrics.IncPaymentProcessed("error", "unknown")
			writeDomainError(w, err)
			return
		}

		metrics.IncPaymentProcessed("rejected", string(p.PaymentFor))
		writeJSON(w, http.StatusOK, p)
	}
}

func toggleAdHandler(moderationUC usecase.ModerationUseCase) func(http.ResponseWriter, *http.Request, string) {
	return func(w http.ResponseWriter, r *http.Request, id string) {
		ctx := r.Context()

		ad, err := moderationUC.ToggleAdStatus(ctx, logging.UserID(ctx), id)
		if err != nil {
			metrics.IncModerationAction("toggle_ad", "error")
			writeDomainError(w, err)
			return
		}

		metrics.IncModerationAction("toggle_ad", "ok")
		writeJSON(w, http.StatusOK, ad)
	}
}

func deleteAdHandler(moderationUC usecase.ModerationUseCase) func(http.ResponseWriter, *http.Request, string) {
	return func(w http.ResponseWriter, r *http.Request, id string) {
		ctx := r.Context()

		if err := moderationUC.DeleteAd(ctx, logging.UserID(ctx), id); err != nil {
			metrics.IncModerationAction("delete_ad", "error")
			writeDomainError(w, err)
			return
		}

		metrics.IncModerationAction("delete_ad", "ok")
		w.WriteHeader(http.StatusNoContent)
	}
}

func bannersListHandler(bannerUC usecase.BannerUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		status := model.BannerStatus(r.URL.Query().Get("status"))
		if status == "" {
			status = model.BannerStatusPending
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = 50
		}

		banners, err := bannerUC.ListByStatus(ctx, status, limit)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		response := struct {
			Data []*model.Banner `json:"data"`
		}{Data: banners}
		writeJSON(w, http.StatusOK, response)
	}
}

type bannerApproveRequest struct {
	DurationCode string `json:"duration_code"`
}

func approveBannerHandler(moderationUC usecase.ModerationUseCase) func(http.ResponseWriter, *http.Request, string) {
	return func(w http.ResponseWriter, r *http.Request, id string) {
		ctx := r.Context()

		var req bannerApproveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		b, err := moderationUC.ApproveBannerDirect(ctx, logging.UserID(ctx), id, req.DurationCode)
		if err != nil {
			metrics.IncModerationAction("approve_banner", "error")
			writeDomainError(w, err)
			return
		}

		metrics.IncModerationAction("approve_banner", "ok")
		metrics.IncEntitlementActivated("Banner")
		writeJSON(w, http.StatusOK, b)
	}
}

func rejectBannerHandler(moderationUC usecase.ModerationUseCase) func(http.ResponseWriter, *http.Request, string) {
	return func(w http.ResponseWriter, r *http.Request, id string) {
		ctx := r.Context()

		b, err := moderationUC.RejectBanner(ctx, logging.UserID(ctx), id)
		if err != nil {
			metrics.IncModerationAction("reject_banner", "error")
			writeDomainError(w, err)
			return
		}

		metrics.IncModerationAction("reject_banner", "ok")
		writeJSON(w, http.StatusOK, b)
	}
}

// A struct to define the expected JSON request body for creating a plan.
type planCreateRequest struct {
	Name           string `json:"name"`
	DurationMonths int    `json:"duration_months"`
	AdQuota        int    `json:"ad_quota"`
	PriceLKR       int64  `json:"price_lkr"`
}

func plansCreateHandler(planUC usecase.PlanUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req planCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		plan, err := planUC.Create(ctx, logging.UserID(ctx), req.Name, req.DurationMonths, req.AdQuota, req.PriceLKR)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, plan)
	}
}

func plansListHandler(planUC usecase.PlanUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		plans, err := planUC.List(ctx)
		if err != nil {
			http.Error(w, "Failed to list plans", http.StatusInternalServerError)
			return
		}

		response := struct {
			Data []*model.MembershipPlan `json:"data"`
		}{Data: plans}
		writeJSON(w, http.StatusOK, response)
	}
}

func planGetHandler(planUC usecase.PlanUseCase) func(http.ResponseWriter, *http.Request, string) {
	return func(w http.ResponseWriter, r *http.Request, id string) {
		ctx := r.Context()

		plan, err := planUC.Get(ctx, id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, plan)
	}
}

func planDeleteHandler(planUC usecase.PlanUseCase) func(http.ResponseWriter, *http.Request, string) {
	return func(w http.ResponseWriter, r *http.Request, id string) {
		ctx := r.Context()

		if err := planUC.Delete(ctx, logging.UserID(ctx), id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
