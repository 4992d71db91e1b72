package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gotoolcall/logger"
	"github.com/gotoolcall/protocol"

	"github.com/google/uuid"
)

const shutdownGrace = 10 * time.Second

type Server struct {
	StartTime time.Time
	Svr       *http.Server
	log       *logger.Logger
}

func NewServer(p *protocol.Protocol, conf *Conf) *Server {
	if conf == nil {
		conf = ServerConfigs()
	}
	log := logger.NewLogger("Server", uuid.NewString())
	return &Server{
		StartTime: time.Now().UTC(),
		log:       log,
		Svr: &http.Server{
			Handler:      SetupRoutes(p, log),
			Addr:         conf.Addr,
			ReadTimeout:  conf.TimeoutRead,
			WriteTimeout: conf.TimeoutWrite,
			IdleTimeout:  conf.TimeoutIdle,
		},
	}
}

func secondsToTimeStr(seconds float64) string {
	duration := time.Duration(int64(seconds)) * time.Second
	timeValue := time.Time{}.Add(duration)
	return timeValue.Format("15:04:05")
}

// returns the current run time of the server
// as a HH:MM:SS formatted string.
func (s *Server) RunTime() string {
	return secondsToTimeStr(time.Since(s.StartTime).Seconds())
}

// forcibly shuts down server and returns total run time.
func (s *Server) Shutdown() (string, error) {
	if err := s.Svr.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return "0", fmt.Errorf("server shutdown failed: %w", err)
	}
	return s.RunTime(), nil
}

// Run serves until ctx is cancelled or an interrupt signal arrives, then
// drains connections for up to ten seconds before closing them.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		s.log.Info(fmt.Sprintf("starting server on %s...", s.Svr.Addr))
		if err := s.Svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		if ok {
			return fmt.Errorf("listen on %s: %w", s.Svr.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := s.Svr.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("shutdown timed out. forcing exit.")
		if _, err := s.Shutdown(); err != nil {
			return err
		}
	}
	s.log.Info(fmt.Sprintf("server run time: %s", s.RunTime()))
	return nil
}
