package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/halkabite/internal/config"
	"github.com/Skotchmaster/halkabite/internal/events"
	"github.com/Skotchmaster/halkabite/internal/httpserver"
	"github.com/Skotchmaster/halkabite/internal/notify"
	"github.com/Skotchmaster/halkabite/internal/repo"
	"github.com/Skotchmaster/halkabite/internal/search"
	"github.com/Skotchmaster/halkabite/internal/service"
	pkgdb "github.com/Skotchmaster/halkabite/pkg/db"
	"github.com/Skotchmaster/halkabite/pkg/logging"
	"github.com/Skotchmaster/halkabite/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/halkabite/pkg/middleware/logging"
	"github.com/Skotchmaster/halkabite/pkg/tokens"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.MustLoad()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(initCtx, cfg.DatabaseURL)
	if err == nil {
		err = repo.Migrate(initCtx, db)
	}
	cancel()
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	pub, err := events.FromConfig(cfg, logger)
	if err != nil {
		log.Fatalf("events: %v", err)
	}

	effects := &service.Effects{
		Events:  pub,
		Mailer:  notify.FromConfig(cfg.SMTP, logger),
		Timeout: cfg.Orders.SideEffectTimeout,
	}

	r := &repo.GormRepo{DB: db}
	catalog := &service.CatalogService{Repo: r, Effects: effects}

	if cfg.Search.Enabled() {
		esCtx, esCancel := context.WithTimeout(context.Background(), 5*time.Second)
		es, err := search.NewClient(esCtx, cfg.Search)
		esCancel()
		if err != nil {
			logger.Warn("search_disabled", "error", err)
		} else {
			catalog.Index = search.NewESIndex(es, cfg.Search.Index)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())
	if cfg.CSRF {
		e.Use(csrf.Middleware(csrf.DefaultConfig(tokens.AccessCookieName)))
	}
	e.HTTPErrorHandler = httpserver.ErrorHandler

	httpserver.Register(e, &httpserver.Deps{
		DB:        db,
		JWTSecret: cfg.JWTAccessSecret,
		Auth: &httpserver.AuthHTTP{Svc: &service.AuthService{
			Repo:      r,
			JWTSecret: cfg.JWTAccessSecret,
			TokenTTL:  cfg.TokenTTL,
			Effects:   effects,
		}},
		Cart: &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Effects: effects}},
		Orders: &httpserver.OrderHTTP{Svc: &service.OrderService{
			Repo:     r,
			Settings: cfg.Orders,
			Effects:  effects,
		}},
		Catalog: &httpserver.CatalogHTTP{Svc: catalog},
		Coupons: &httpserver.CouponHTTP{Svc: &service.CouponService{Repo: r, Settings: cfg.Orders}},
		Admin:   &httpserver.AdminHTTP{Svc: &service.AdminService{Repo: r}},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}

	effects.Wait()

	if err := pub.Close(); err != nil {
		logger.Error("events close", "error", err)
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db close", "error", err)
	}

	logger.Info("stopped")
}
