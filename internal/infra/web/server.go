package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"classified-marketplace/internal/infra/logging"
	"classified-marketplace/internal/infra/redis"
	"classified-marketplace/internal/usecase"
)

const adminWriteLimit = 30 // writes per admin per minute

type Server struct {
	approvalUC   usecase.ApprovalUseCase
	moderationUC usecase.ModerationUseCase
	paymentUC    usecase.PaymentUseCase
	bannerUC     usecase.BannerUseCase
	planUC       usecase.PlanUseCase
	statsUC      usecase.StatsUseCase
	auth         *AuthManager
	limiter      *redis.RateLimiter
	apiKey       string
	log          *zerolog.Logger
}

func NewServer(
	approvalUC usecase.ApprovalUseCase,
	moderationUC usecase.ModerationUseCase,
	paymentUC usecase.PaymentUseCase,
	bannerUC usecase.BannerUseCase,
	planUC usecase.PlanUseCase,
	statsUC usecase.StatsUseCase,
	auth *AuthManager,
	limiter *redis.RateLimiter,
	apiKey string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		approvalUC:   approvalUC,
		moderationUC: moderationUC,
		paymentUC:    paymentUC,
		bannerUC:     bannerUC,
		planUC:       planUC,
		statsUC:      statsUC,
		auth:         auth,
		limiter:      limiter,
		apiKey:       apiKey,
		log:          logger,
	}
}

// RegisterRoutes sets up the routing for the admin API.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/login", s.loginHandler)
	mux.HandleFunc("/api/v1/logout", s.logoutHandler)

	mux.Handle("/api/v1/stats", s.authMiddleware(statsHandler(s.statsUC)))

	paymentsRouter := s.authMiddleware(s.paymentsRouter())
	mux.Handle("/api/v1/payments", paymentsRouter)
	mux.Handle("/api/v1/payments/", paymentsRouter)

	adsRouter := s.authMiddleware(s.adsRouter())
	mux.Handle("/api/v1/ads/", adsRouter)

	bannersRouter := s.authMiddleware(s.bannersRouter())
	mux.Handle("/api/v1/banners", bannersRouter)
	mux.Handle("/api/v1/banners/", bannersRouter)

	plansRouter := s.authMiddleware(s.plansRouter())
	mux.Handle("/api/v1/plans", plansRouter)  // Handles POST and GET-all
	mux.Handle("/api/v1/plans/", plansRouter) // Handles DELETE, GET-one
}

// authMiddleware validates the admin session and applies a write rate limit
// per admin identity.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if s.limiter != nil && r.Method != http.MethodGet {
			ok, err := s.limiter.Allow(r.Context(), redis.AdminActionKey(claims.Subject, "write"), adminWriteLimit, time.Minute)
			if err != nil {
				s.log.Error().Err(err).Msg("rate limiter unavailable")
			} else if !ok {
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
		}

		ctx := logging.WithUserID(r.Context(), claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) paymentsRouter() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/payments"), "/")

		if path == "pending" {
			pendingPaymentsHandler(s.paymentUC)(w, r)
			return
		}

		// /api/v1/payments/{id}/approve|reject
		id, action, ok := strings.Cut(path, "/")
		if !ok || r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		switch action {
		case "approve":
			approvePaymentHandler(s.approvalUC)(w, r, id)
		case "reject":
			rejectPaymentHandler(s.approvalUC)(w, r, id)
		default:
			http.NotFound(w, r)
		}
	})
}

func (s *Server) adsRouter() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/ads"), "/")

		id, action, hasAction := strings.Cut(path, "/")
		if id == "" {
			http.NotFound(w, r)
			return
		}

		switch {
		case hasAction && action == "toggle" && r.Method == http.MethodPost:
			toggleAdHandler(s.moderationUC)(w, r, id)
		case !hasAction && r.Method == http.MethodDelete:
			deleteAdHandler(s.moderationUC)(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

func (s *Server) bannersRouter() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/banners"), "/")

		if path == "" {
			if r.Method != http.MethodGet {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			bannersListHandler(s.bannerUC)(w, r)
			return
		}

		id, action, ok := strings.Cut(path, "/")
		if !ok || r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		switch action {
		case "approve":
			approveBannerHandler(s.moderationUC)(w, r, id)
		case "reject":
			rejectBannerHandler(s.moderationUC)(w, r, id)
		default:
			http.NotFound(w, r)
		}
	})
}

// plansRouter acts as a sub-router for /api/v1/plans
func (s *Server) plansRouter() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/plans"), "/")

		if path == "" {
			switch r.Method {
			case http.MethodGet:
				plansListHandler(s.planUC)(w, r)
			case http.MethodPost:
				plansCreateHandler(s.planUC)(w, r)
			default:
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		switch r.Method {
		case http.MethodGet:
			planGetHandler(s.planUC)(w, r, path)
		case http.MethodDelete:
			planDeleteHandler(s.planUC)(w, r, path)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
}
