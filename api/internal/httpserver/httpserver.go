package httpserver

import (
	"context"
	"crypto/tls"
	_ "embed"
	"log"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

//go:embed web/app.html
var AppHTML []byte

type Server struct {
	httpServer *http.Server
}

// Run blocks until the server stops. Writes may take as long as a provider call plus the pre-call delay.
func (s *Server) Run(addr string, handler http.Handler, writeTimeout time.Duration) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(logrus.StandardLogger().WriterLevel(logrus.ErrorLevel), "http: ", 0),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
