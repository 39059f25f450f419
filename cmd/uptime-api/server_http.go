package main

import (
	"net/http"
	"time"

	config "github.com/NordCoder/uptimekv/internal/config/uptime-api"
	"github.com/NordCoder/uptimekv/internal/services/checker"
	"go.uber.org/zap"
)

func buildHTTPServer(cfg *config.Config, h *checker.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           h.Routes(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

func serveHTTP(srv *http.Server, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("http listening", zap.String("addr", cfg.Server.HTTPAddr))
	return srv.ListenAndServe()
}
