package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"reuseai/api/internal/app"
	"reuseai/api/internal/config"
	"reuseai/api/internal/handle"
	"reuseai/api/internal/httpserver"
	"reuseai/api/internal/logging"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %s", err.Error())
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	svc, closeCache, err := app.NewService(context.Background(), cfg)
	if err != nil {
		logrus.Fatalf("error initializing service: %s", err.Error())
	}
	defer closeCache()

	gin.SetMode(cfg.GinMode)
	h := handle.New(svc, httpserver.AppHTML, cfg.FrontendFile)
	router := httpserver.InitRoutes(h, httpserver.RouterOptions{
		AllowOrigin:    cfg.CORSAllowOrigin,
		MaxUploadBytes: cfg.MaxUploadBytes(),
	})

	// a request may wait the full pre-call delay and then the whole provider timeout
	writeTimeout := cfg.PreCallDelay + cfg.RequestTimeout + 10*time.Second

	srv := new(httpserver.Server)
	go func() {
		logrus.WithField("addr", cfg.Addr()).Info("reuseai listening")
		if err := srv.Run(cfg.Addr(), router, writeTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("error occurred while running http server: %s", err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Info("reuseai shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("error occurred on server shutting down: %s", err.Error())
	}
}
