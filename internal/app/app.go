package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"smartparking/internal/clients"
	"smartparking/internal/config"
	httpserver "smartparking/internal/http"
	"smartparking/internal/http/handlers"
	"smartparking/internal/redisstore"
	"smartparking/internal/repository"
	"smartparking/internal/service"
	"smartparking/internal/ws"
	"smartparking/libs/db"
	libredis "smartparking/libs/redis"
)

// App wires the parking server dependency graph. The broadcast hub is
// constructed exactly once here and handed by reference to every
// component that publishes.
type App struct {
	server      *httpserver.Server
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	var (
		redisClient *redis.Client
		slotCache   service.SlotCache
	)
	if cfg.Redis.Addr != "" {
		redisClient, err = libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		slotCache = redisstore.NewSlotCache(redisClient)
	}

	hub := ws.NewHub(logger)

	bookingRepo := repository.NewBookingRepository(sqlDB)
	slotRepo := repository.NewSlotRepository(sqlDB)
	paymentRepo := repository.NewPaymentRepository(sqlDB)
	gateLogRepo := repository.NewGateLogRepository(sqlDB)

	bookingSvc := service.NewBookingService(bookingRepo, hub, slotCache, logger)
	gateSvc := service.NewGateService(bookingSvc, gateLogRepo, logger)
	slotSvc := service.NewSlotService(slotRepo, hub, slotCache, logger)

	provider := clients.NewPaymentProviderClient(cfg.Payments.BaseURL, cfg.Payments.KeyID, cfg.Payments.KeySecret, logger)
	paymentSvc := service.NewPaymentService(bookingRepo, slotRepo, paymentRepo, provider, logger)

	wsServer := ws.NewServer(hub, cfg.WSWriteTimeout(), logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Slots:    handlers.NewSlotsHandlers(slotSvc, logger),
		Bookings: handlers.NewBookingsHandlers(bookingSvc, logger),
		Gate:     handlers.NewGateHandlers(gateSvc, logger),
		Payments: handlers.NewPaymentsHandlers(paymentSvc, logger),
		SlotsWS:  wsServer.HandleWS,
		Health:   handlers.NewHealthHandler(),
	}, cfg.Auth.JWTSecret)

	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts the HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
