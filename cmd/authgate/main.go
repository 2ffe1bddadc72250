package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	authgate "github.com/goliatone/go-authgate"
	"github.com/goliatone/go-authgate/middleware/tokenware"
)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("authgate"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := LoadConfig()
	ctx := context.Background()

	store, cleanup, err := buildStore(ctx, cfg, lgr)
	if err != nil {
		lgr.GetLogger("store").Error("failed to initialize user store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	gateCfg := authgate.StaticConfig{
		SigningKey: cfg.SigningKey,
		TokenTTL:   cfg.TokenTTL,
		Issuer:     cfg.Issuer,
		BcryptCost: cfg.BcryptCost,
	}

	gate := authgate.NewGate(store, gateCfg).
		WithLogger(lgr.GetLogger("gate"))

	controller := authgate.NewAuthController(
		authgate.WithGate(gate),
		authgate.WithControllerLogger(lgr.GetLogger("http")),
	)

	protected := tokenware.New(tokenware.Config{
		TokenValidator:  authgate.TokenwareValidator(gate.TokenService()),
		ContextKey:      gateCfg.GetContextKey(),
		AuthScheme:      gateCfg.GetAuthScheme(),
		TokenLookup:     gateCfg.GetTokenLookup(),
		ContextEnricher: authgate.ContextEnricherAdapter,
	})

	app := fiber.New(fiber.Config{
		AppName: "authgate",
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	authgate.RegisterAuthRoutes(app, controller, protected)

	go func() {
		if err := app.Listen(cfg.Addr); err != nil {
			lgr.GetLogger("http").Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	lgr.GetLogger("http").Info("authgate listening", "addr", cfg.Addr)

	WaitExitSignal()

	if err := app.Shutdown(); err != nil {
		lgr.GetLogger("http").Error("shutdown error", "error", err)
	}
}

func buildStore(ctx context.Context, cfg *Config, lgr *glog.BaseLogger) (authgate.UserStore, func(), error) {
	if cfg.DatabaseDSN == "" {
		lgr.GetLogger("store").Info("using in-memory user store")
		return authgate.NewMemoryUserStore(), func() {}, nil
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	store := authgate.NewBunUserStore(db).
		WithLogger(lgr.GetLogger("store"))

	if err := store.ResetModel(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	lgr.GetLogger("store").Info("using sqlite user store", "dsn", cfg.DatabaseDSN)
	return store, func() { _ = db.Close() }, nil
}

// WaitExitSignal blocks until SIGINT or SIGTERM.
func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	return <-ch
}
