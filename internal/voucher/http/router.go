package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/voucher/internal/voucher/service"
	"github.com/aussiebroadwan/voucher/internal/voucher/store"
	"github.com/aussiebroadwan/voucher/pkg/httpx"
	"github.com/aussiebroadwan/voucher/pkg/slogx"

	_ "github.com/aussiebroadwan/voucher/api/voucher" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	clientRegistry    map[string]string
	adminPasswordHash string

	RedemptionService *service.RedemptionService
	ReportService     *service.ReportService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	clientRegistry map[string]string,
	adminPasswordHash string,
) *Router {
	r := &Router{
		Mux:               http.NewServeMux(),
		buildVersion:      buildVersion,
		startTime:         time.Now(),
		logger:            logger,
		store:             st,
		clientRegistry:    clientRegistry,
		adminPasswordHash: adminPasswordHash,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerVouchers()
	r.registerReports()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
//
//	@title			Voucher Service API
//	@version		0.1.0
//	@description	One-time discount voucher issuance and redemption with cached
//	@description	reporting for dashboards. Each voucher token can be redeemed
//	@description	exactly once; retries are answered idempotently.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/voucher
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	ClientToken
//	@in							header
//	@name						Authorization
//	@description				Static client token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerVouchers() {
	issueHandler := &IssueHandler{RedemptionService: r.RedemptionService}
	redeemHandler := &RedeemHandler{RedemptionService: r.RedemptionService}

	// Both endpoints mutate the dataset: client auth plus a strict limit
	// keyed by client (falling back to IP) to blunt brute-force token
	// guessing at the redeem endpoint.
	r.Mux.Handle("POST /v1/vouchers/issue",
		httpx.Chain(issueHandler,
			httpx.ClientAuthMiddleware(r.clientRegistry),
			httpx.RateLimitByClient(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/vouchers/redeem",
		httpx.Chain(redeemHandler,
			httpx.ClientAuthMiddleware(r.clientRegistry),
			httpx.RateLimitByClient(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerReports() {
	h := &OfferReportHandler{ReportService: r.ReportService}

	// Read-only and cache-backed; lenient IP limit is plenty.
	r.Mux.Handle("GET /v1/reports/offers",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &AdminExportHandler{RedemptionService: r.RedemptionService}

	r.Mux.Handle("GET /v1/admin/export",
		httpx.Chain(h,
			httpx.AdminAuthMiddleware(r.adminPasswordHash),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health endpoints get high limits; monitoring polls them frequently.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
