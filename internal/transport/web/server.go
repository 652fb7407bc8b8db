package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Server struct {
	log    *zap.Logger
	server *http.Server
}

// NewServer: port может быть "8080" или полным адресом "127.0.0.1:8080".
func NewServer(logger *zap.Logger, port string, h http.Handler) *Server {
	addr := port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{server: srv, log: logger}
}

func (ws *Server) Addr() string { return ws.server.Addr }

// Run блокируется до остановки; http.ErrServerClosed ошибкой не считается.
func (ws *Server) Run() error {
	ws.log.Info("started", zap.String("addr", ws.server.Addr))
	if err := ws.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (ws *Server) Close(ctx context.Context) {
	if err := ws.server.Shutdown(ctx); err != nil {
		ws.log.Warn("forced to shutdown", zap.Error(err))
		return
	}
	ws.log.Info("exited gracefully")
}
