package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/filesapi/auth/internal/db"
	"github.com/filesapi/auth/internal/handlers"
	"github.com/filesapi/auth/internal/logger"
	"github.com/filesapi/auth/internal/repository/postgres"
	"github.com/filesapi/auth/internal/service/auth"
	"github.com/filesapi/auth/internal/service/user"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
	Logger     logger.Logger
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	l, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	storage := postgres.NewStorage(pool)

	codec, err := auth.NewTokenCodec(auth.CodecConfig{
		AccessSecret:  c.AccessSecret,
		RefreshSecret: c.RefreshSecret,
		Alg:           c.SigningAlg,
		AccessTTL:     c.AccessTokenTTL,
		RefreshTTL:    c.RefreshTokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating token codec. Err: %w", err)
	}

	authService, err := auth.NewAuthService(codec, storage.Session())
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	userService := user.NewService(auth.BcryptHasher{Cost: c.BcryptCost}, authService, storage.User())

	mux := handlers.NewRouter(authService, userService, l)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		Logger:     l,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.Logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.Logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.Logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
