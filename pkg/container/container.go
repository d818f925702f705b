package container

import (
	"context"
	"fmt"
	"time"

	"mamareykjavik-backend/internal/config"
	cardhandler "mamareykjavik-backend/internal/domains/card/handler"
	cardrepo "mamareykjavik-backend/internal/domains/card/repository"
	cardservice "mamareykjavik-backend/internal/domains/card/service"
	"mamareykjavik-backend/internal/domains/payment/gateway/saltpay"
	paymenthandler "mamareykjavik-backend/internal/domains/payment/handler"
	paymentrepo "mamareykjavik-backend/internal/domains/payment/repository"
	paymentservice "mamareykjavik-backend/internal/domains/payment/service"
	promohandler "mamareykjavik-backend/internal/domains/promotion/handler"
	promorepo "mamareykjavik-backend/internal/domains/promotion/repository"
	promoservice "mamareykjavik-backend/internal/domains/promotion/service"
	shophandler "mamareykjavik-backend/internal/domains/shop/handler"
	shoprepo "mamareykjavik-backend/internal/domains/shop/repository"
	shopservice "mamareykjavik-backend/internal/domains/shop/service"
	tickethandler "mamareykjavik-backend/internal/domains/ticket/handler"
	ticketrepo "mamareykjavik-backend/internal/domains/ticket/repository"
	ticketservice "mamareykjavik-backend/internal/domains/ticket/service"
	tourhandler "mamareykjavik-backend/internal/domains/tour/handler"
	tourrepo "mamareykjavik-backend/internal/domains/tour/repository"
	tourservice "mamareykjavik-backend/internal/domains/tour/service"
	"mamareykjavik-backend/internal/infrastructure/cache"
	"mamareykjavik-backend/internal/infrastructure/database"
	"mamareykjavik-backend/internal/infrastructure/email"
	"mamareykjavik-backend/pkg/jwt"
	"mamareykjavik-backend/pkg/logger"
	"mamareykjavik-backend/pkg/ratelimit"
)

// The billing currency. Prices are whole ISK.
const currency = "ISK"

// Container wires infrastructure, repositories, services and handlers.
type Container struct {
	Config *config.Config

	// Infrastructure
	DB    *database.PostgresDB
	Redis *cache.RedisClient

	JWTManager *jwt.Manager

	// Handlers
	PromoPublicHandler  *promohandler.PublicHandler
	PromoAdminHandler   *promohandler.AdminHandler
	WebhookHandler      *paymenthandler.WebhookHandler
	WebhookAuditHandler *paymenthandler.AuditHandler
	TicketHandler       *tickethandler.CheckoutHandler
	ShopHandler         *shophandler.CheckoutHandler
	CardHandler         *cardhandler.CheckoutHandler
	TourHandler         *tourhandler.CheckoutHandler
}

// New connects infrastructure and wires every domain.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	// ---- Infrastructure ----
	c.DB = database.NewPostgresDB(config.LoadDatabaseConfig(cfg))
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	if cfg.Redis.Enabled {
		c.Redis = cache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
		if err := c.Redis.Connect(ctx); err != nil {
			// Redis is an availability optimization, not a dependency
			logger.Error("redis unavailable, falling back to in-memory rate limiting", err)
			c.Redis = nil
		}
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	mailer := email.NewSMTPService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.From,
		cfg.Email.InternalTo,
	)

	saltpayCfg := &saltpay.Config{
		MerchantID:  cfg.SaltPay.MerchantID,
		SecretKey:   cfg.SaltPay.SecretKey,
		GatewayURL:  cfg.SaltPay.GatewayURL,
		ReturnURL:   cfg.SaltPay.ReturnURL,
		CallbackURL: cfg.SaltPay.CallbackURL,
	}

	// ---- Rate limiting ----
	window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
	var limiter ratelimit.Limiter
	if c.Redis != nil {
		limiter = ratelimit.NewRedisLimiter(c.Redis.Client, cfg.RateLimit.Limit, window)
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Limit, window)
	}

	// ---- Promotion domain ----
	promoRepository := promorepo.NewPostgresRepository(c.DB.Pool)
	promoSvc := promoservice.NewPromotionService(promoRepository, limiter)
	c.PromoPublicHandler = promohandler.NewPublicHandler(promoSvc)
	c.PromoAdminHandler = promohandler.NewAdminHandler(promoSvc)

	// ---- Product domains ----
	ticketRepository := ticketrepo.NewPostgresRepository(c.DB.Pool)
	ticketSvc := ticketservice.NewTicketService(ticketRepository, saltpayCfg, currency)
	c.TicketHandler = tickethandler.NewCheckoutHandler(ticketSvc)

	shopRepository := shoprepo.NewPostgresRepository(c.DB.Pool)
	shopSvc := shopservice.NewShopService(shopRepository, saltpayCfg, currency)
	c.ShopHandler = shophandler.NewCheckoutHandler(shopSvc)

	cardRepository := cardrepo.NewPostgresRepository(c.DB.Pool)
	cardSvc := cardservice.NewCardService(cardRepository, saltpayCfg, currency)
	c.CardHandler = cardhandler.NewCheckoutHandler(cardSvc)

	tourRepository := tourrepo.NewPostgresRepository(c.DB.Pool)
	tourSvc := tourservice.NewTourService(tourRepository, saltpayCfg, currency)
	c.TourHandler = tourhandler.NewCheckoutHandler(tourSvc)

	// ---- Payment reconciliation ----
	webhookRepository := paymentrepo.NewWebhookRepository(c.DB.Pool)
	reconciler := paymentservice.NewReconcileService(
		[]paymentservice.ProductAdapter{
			ticketservice.NewTicketAdapter(ticketRepository),
			shopservice.NewShopAdapter(shopRepository, mailer),
			cardservice.NewMealCardAdapter(cardRepository),
			cardservice.NewGiftCardAdapter(cardRepository),
			tourservice.NewTourAdapter(tourRepository),
		},
		webhookRepository,
		mailer,
		cfg.SaltPay.SecretKey,
	)
	c.WebhookHandler = paymenthandler.NewWebhookHandler(reconciler, cfg.SaltPay.ReturnURL)
	c.WebhookAuditHandler = paymenthandler.NewAuditHandler(webhookRepository)

	return c, nil
}

// HealthCheck pings every connected dependency.
func (c *Container) HealthCheck(ctx context.Context) map[string]string {
	status := map[string]string{"database": "ok"}

	if err := c.DB.HealthCheck(ctx); err != nil {
		status["database"] = err.Error()
	}

	if c.Redis != nil {
		status["redis"] = "ok"
		if err := c.Redis.HealthCheck(ctx); err != nil {
			status["redis"] = err.Error()
		}
	} else {
		status["redis"] = "disabled"
	}

	return status
}

// Close releases infrastructure connections.
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("close redis", err)
		}
	}
	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
	}
}
