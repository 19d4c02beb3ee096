package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/promptacademy/backend/api/handler"
	"github.com/promptacademy/backend/internal/analytics"
	"github.com/promptacademy/backend/internal/config"
	"github.com/promptacademy/backend/internal/gateway"
	"github.com/promptacademy/backend/internal/ratelimit"
	"github.com/promptacademy/backend/internal/router"
	"github.com/promptacademy/backend/internal/routes"
	"github.com/promptacademy/backend/internal/services/lifecycle"
	"github.com/promptacademy/backend/internal/session"
	"github.com/promptacademy/backend/internal/token"
	"github.com/promptacademy/backend/pkg/httpcontext"
	"github.com/promptacademy/backend/pkg/logger"
	"github.com/promptacademy/backend/repository/memory"
	authUC "github.com/promptacademy/backend/usecase/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	codec, err := token.NewCodec(cfg.JWT.Secret, cfg.JWT.Issuer)
	if err != nil {
		zapLogger.Fatal("token codec init failed", zap.Error(err))
	}

	limiter := ratelimit.New(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	janitor := ratelimit.NewJanitor(limiter, cfg.RateLimit.SweepInterval, zapLogger)
	janitor.Start()
	manager.Register("rate_limit_janitor", func(ctx context.Context) error {
		janitor.Stop(ctx)
		return nil
	})

	sink := analytics.NewLogSink(zapLogger, 256)
	manager.Register("analytics_sink", sink.Close)

	cookies := session.NewCookieManager(cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL, cfg.IsProduction())
	userRepo := memory.NewUserRepository()
	authUseCase := authUC.New(userRepo, codec, sink, zapLogger, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, cookies, ctxAdapter, zapLogger),
		Profile: apiHandler.NewProfileHandler(authUseCase, ctxAdapter, zapLogger),
		Search:  apiHandler.NewSearchHandler(ctxAdapter, zapLogger),
		Admin:   apiHandler.NewAdminHandler(limiter, ctxAdapter, zapLogger),
		Pages:   apiHandler.NewPageHandler(ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(ctxAdapter, zapLogger),
	}
	r := router.New(handlers)

	gw := gateway.New(routes.DefaultClassifier(), codec, cookies, limiter, zapLogger)

	server := &fasthttp.Server{
		Handler:      gw.Wrap(r.Handler),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
