// File: internal/infra/api/server.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"classified-marketplace/internal/domain"
	"classified-marketplace/internal/domain/model"
	"classified-marketplace/internal/domain/ports/repository"
	"classified-marketplace/internal/usecase"
)

// Server is the public marketplace API. Identity is transport-level only: the
// bearer token's subject becomes the acting user id, and the use cases enforce
// everything beyond that.
type Server struct {
	listingUC     usecase.ListingUseCase
	bannerUC      usecase.BannerUseCase
	paymentUC     usecase.PaymentUseCase
	planUC        usecase.PlanUseCase
	categories    repository.CategoryRepository
	members       repository.MembershipRepository
	notifications repository.NotificationLogRepository
	log           *zerolog.Logger
}

func NewServer(
	listingUC usecase.ListingUseCase,
	bannerUC usecase.BannerUseCase,
	paymentUC usecase.PaymentUseCase,
	planUC usecase.PlanUseCase,
	categories repository.CategoryRepository,
	members repository.MembershipRepository,
	notifications repository.NotificationLogRepository,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		listingUC:     listingUC,
		bannerUC:      bannerUC,
		paymentUC:     paymentUC,
		planUC:        planUC,
		categories:    categories,
		members:       members,
		notifications: notifications,
		log:           logger,
	}
}

func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ads", s.listAds)
		r.Post("/ads", s.createAd)
		r.Get("/ads/{id}", s.getAd)
		r.Get("/categories", s.listCategories)
		r.Get("/plans", s.listPlans)
		r.Get("/banners", s.listActiveBanners)
		r.Post("/banners", s.submitBanner)
		r.Post("/payments/membership", s.submitMembershipPayment)
		r.Post("/payments/banner", s.submitBannerPayment)
		r.Get("/my/ads", s.listMyAds)
		r.Get("/my/payments", s.listMyPayments)
		r.Get("/my/memberships", s.listMyMemberships)
		r.Get("/my/notifications", s.listMyNotifications)
	})
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrUnauthorized):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, domain.ErrQuotaExceeded):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrUnknownPlan):
		http.Error(w, "unknown plan", http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrMalformedDurationCode):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) listAds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	minPrice, _ := strconv.ParseInt(q.Get("min_price"), 10, 64)
	maxPrice, _ := strconv.ParseInt(q.Get("max_price"), 10, 64)
	limit, _ := strconv.Atoi(q.Get("limit"))

	ads, err := s.listingUC.ListAds(r.Context(), usecase.AdFilter{
		CategoryID:    q.Get("category"),
		District:      q.Get("district"),
		SubCategoryID: q.Get("subcategory"),
		Search:        q.Get("q"),
		MinPrice:      minPrice,
		MaxPrice:      maxPrice,
		Limit:         limit,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, struct {
		Items []*model.Ad `json:"items"`
	}{Items: ads})
}

func (s *Server) getAd(w http.ResponseWriter, r *http.Request) {
	ad, err := s.listingUC.GetAd(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, ad)
}

type createAdRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Price         int64    `json:"price"`
	CategoryID    string   `json:"category_id"`
	SubCategoryID string   `json:"sub_category_id"`
	District      string   `json:"district"`
	PhoneNumber   string   `json:"phone_number"`
	Images        []string `json:"images"` // data URLs
}

func (s *Server) createAd(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req createAdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ad, err := s.listingUC.CreateAd(r.Context(), userID, usecase.NewAdInput{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
		District:      req.District,
		PhoneNumber:   req.PhoneNumber,
		ImageDataURLs: req.Images,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, ad)
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.categories.ListAll(r.Context(), repository.NoTX)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, struct {
		Items []*model.Category `json:"items"`
	}{Items: cats})
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.planUC.List(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, struct {
		Items []*model.MembershipPlan `json:"items"`
	}{Items: plans})
}

func (s *Server) listActiveBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := s.bannerUC.ListActive(r.Context(), r.URL.Query().Get("position"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, struct {
		Items []*model.Banner `json:"items"`
	}{Items: banners})
}

type submitBannerRequest struct {
	Description  string `json:"description"`
	Position     string `json:"position"`
	CategoryID   string `json:"category_id"`
	DurationCode string `json:"duration_code"`
	Image        string `json:"image"` // data URL
}

func (s *Server) submitBanner(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req submitBannerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	b, err := s.bannerUC.SubmitBanner(r.Context(), userID, usecase.NewBannerInput{
		Description:  req.Description,
		Position:     req.Position,
		CategoryID:   req.CategoryID,
		DurationCode: req.DurationCode,
		ImageDataURL: req.Image,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, b)
}

type membershipPaymentRequest struct {
	PlanID string `json:"plan_id"`
	Method string `json:"method"`
	Slip   string `json:"slip"` // data URL of the transfer slip
}

func (s *Server) submitMembershipPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req membershipPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := s.paymentUC.SubmitMembershipPayment(r.Context(), userID, req.PlanID, req.Method, req.Slip)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

type bannerPaymentRequest struct {
	BannerID string `json:"banner_id"`
	Amount   int64  `json:"amount"`
	Method   string `json:"method"`
	Slip     string `json:"slip"`
}

func (s *Server) submitBannerPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req bannerPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := s.paymentUC.SubmitBannerPayment(r.Context(), userID, req.BannerID, req.Amount, req.Method, req.Slip)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (s *Server) listMyAds(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	ads, err := s.listingUC.ListMyAds(r.Context(), userID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, struct {
		Items []*model.Ad `json:"items"`
	}{Items: ads})
}

func (s *Server) listMyPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	payments, err := s.paymentUC.ListMyPayments(r.Context(), userID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, struct {
		Items []*model.Payment `json:"items"`
	}{Items: payments})
}

func (s *Server) listMyMemberships(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	memberships, err := s.members.FindByUser(r.Context(), repository.NoTX, userID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, struct {
		Items []*model.Membership `json:"items"`
	}{Items: memberships})
}

func (s *Server) listMyNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	entries, err := s.notifications.ListByUser(r.Context(), repository.NoTX, userID, limit)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, struct {
		Items []repository.NotificationEntry `json:"items"`
	}{Items: entries})
}
