package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aurora-Nasa-1/101216MISoundBoost/api/route"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/bootstrap"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/util/logging"
	"github.com/gin-gonic/gin"
)

func main() {
	logger := logging.GetSubsystemLogger("main")

	app := bootstrap.App()
	env := app.Env
	defer app.CloseDBConnection()

	timeout := time.Duration(env.ContextTimeout) * time.Second

	if env.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), logging.GinLogger())

	uc := route.Setup(app, timeout, engine)

	// 启动时保存初始备份并加载配置
	if state, err := uc.Initialize(context.Background()); err != nil {
		logger.Warn().Err(err).Str("status", string(state.Status)).Msg("initial load incomplete")
	}

	srv := &http.Server{Addr: env.ServerAddress, Handler: engine}
	go func() {
		logger.Info().Str("addr", env.ServerAddress).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
}
