package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ccrt-portal/backend/config"
	"ccrt-portal/backend/internal/api/handler"
	"ccrt-portal/backend/internal/api/middleware"
	"ccrt-portal/backend/pkg/response"
	"ccrt-portal/backend/pkg/session"
)

const webhookPath = "/api/jotform/webhook"

// Setup builds the gin engine with every route of the portal.
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	auth middleware.Authenticator,
	limiter middleware.Limiter,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	proxies := cfg.Server.TrustedProxies
	if !cfg.Server.TrustProxy {
		proxies = nil
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		logger.Warn("invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}

	r.SetHTMLTemplate(handler.Templates())

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	// ── health ──
	// Registered ahead of RequireHTTPS: load balancer health checks speak plain HTTP.
	r.GET("/health", h.Health.Health)
	r.GET("/healthz", h.Health.Ready)

	if cfg.Server.ForceHTTPS {
		r.Use(middleware.RequireHTTPS(cfg.Server.TrustProxy))
	}
	r.Use(middleware.SecurityHeaders(cfg.Server.ForceHTTPS))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	bodyLimits := map[string]int64{}
	if cfg.Server.MaxWebhookBytes > 0 {
		bodyLimits[webhookPath] = cfg.Server.MaxWebhookBytes
	}
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes, bodyLimits))

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Not found")
	})

	cookie := h.Auth.CookieName()
	requireSession := middleware.SessionAuth(auth, cookie)
	optionalSession := middleware.OptionalSession(auth, cookie)
	limit := middleware.RateLimit(limiter)

	api := r.Group("/api")

	// ── admin ──
	admin := api.Group("/admin")
	{
		admin.POST("/login", limit, h.Auth.AdminLogin)
		admin.POST("/logout", h.Auth.Logout)
		admin.GET("/session", optionalSession, h.Auth.Session(session.RoleAdmin))

		authorized := admin.Group("", requireSession, middleware.RoleAuth(session.RoleAdmin))
		authorized.POST("/change-password", limit, h.Auth.ChangePassword)
		authorized.GET("/submissions", h.Submission.List)
		authorized.GET("/submissions/export", h.Submission.Export)
		authorized.GET("/completion-events", h.Submission.Events)
	}

	// ── participant portal ──
	participant := api.Group("/participant")
	{
		participant.POST("/login", limit, h.Auth.ParticipantLogin)
		participant.POST("/logout", h.Auth.Logout)
		participant.GET("/session", optionalSession, h.Auth.Session(session.RoleParticipant))

		authorized := participant.Group("", requireSession, middleware.RoleAuth(session.RoleParticipant))
		authorized.GET("/forms", h.Participant.Forms)
		authorized.POST("/complete", h.Participant.Complete)
		authorized.GET("/me", h.Participant.Me)
	}

	// ── business associates ──
	baa := api.Group("/baa")
	{
		baa.POST("/login", limit, h.Auth.BAALogin)
		baa.POST("/logout", h.Auth.Logout)
		baa.GET("/session", optionalSession, h.Auth.Session(session.RoleBAA))
		baa.GET("/thankyou", optionalSession, h.BAA.ThankYou)

		authorized := baa.Group("", requireSession, middleware.RoleAuth(session.RoleBAA))
		authorized.GET("/form", h.BAA.Form)
		authorized.POST("/complete", h.BAA.Complete)
	}

	// ── JotForm callbacks ──
	jotform := api.Group("/jotform")
	{
		jotform.GET("/thankyou", optionalSession, h.JotForm.ThankYou)
		jotform.POST("/webhook", h.JotForm.Webhook)
	}

	// ── administration ──
	manage := api.Group("", requireSession, middleware.RoleAuth(session.RoleAdmin))
	{
		participants := manage.Group("/participants")
		participants.GET("", h.Participant.List)
		participants.POST("", h.Participant.Create)
		participants.GET("/:id", h.Participant.Get)
		participants.PUT("/:id", h.Participant.Update)
		participants.DELETE("/:id", h.Participant.Delete)
		participants.PUT("/:id/assignments", h.Assignment.Replace)

		forms := manage.Group("/forms")
		forms.GET("", h.Form.List)
		forms.POST("", h.Form.Create)
		forms.GET("/:id", h.Form.Get)
		forms.PUT("/:id", h.Form.Update)
		forms.DELETE("/:id", h.Form.Delete)

		baas := manage.Group("/baas")
		baas.GET("", h.BAA.List)
		baas.POST("", h.BAA.Create)
		baas.GET("/:id", h.BAA.Get)
		baas.PUT("/:id", h.BAA.Update)
		baas.DELETE("/:id", h.BAA.Delete)

		manage.POST("/assign", h.Assignment.Assign)
	}

	return r
}
