package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chakhaeng/auth-server/auth"
	"github.com/chakhaeng/auth-server/identity"
	"github.com/chakhaeng/auth-server/internal/config"
	"github.com/chakhaeng/auth-server/server"
	"github.com/chakhaeng/auth-server/token"
	"github.com/chakhaeng/auth-server/token/refresh"
	"github.com/chakhaeng/auth-server/token/refresh/redisrepo"
	"github.com/chakhaeng/auth-server/users"
	"github.com/chakhaeng/auth-server/users/pgrepo"
	"github.com/chakhaeng/auth-server/users/repofake"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "config.Load")
	}

	setupLogging(cfg)
	displayAppname(cfg.AppName)

	ctx := context.Background()

	verifier, err := identity.NewGoogleVerifier(ctx, cfg.GoogleClientID, cfg.TrustedIssuers)
	if err != nil {
		return errors.Wrap(err, "identity.NewGoogleVerifier")
	}

	codec := token.NewCodec(token.NewHMACSigner(cfg.JWTSecret), cfg.AccessTTL, cfg.RefreshTTL)

	directory, cleanupDB, err := newDirectory(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "user directory")
	}
	defer cleanupDB()

	store, cleanupStore, err := newRefreshStore(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "refresh store")
	}
	defer cleanupStore()

	var opts []auth.SessionServiceOption
	if cfg.RefreshRotate {
		opts = append(opts, auth.WithRefreshRotation())
	}
	sessions, err := auth.NewSessionService(verifier, directory, codec, store, opts...)
	if err != nil {
		return errors.Wrap(err, "auth.NewSessionService")
	}

	var exchanger *identity.CodeExchanger
	if cfg.GoogleClientSecret != "" {
		exchanger = identity.NewCodeExchanger(cfg.GoogleClientID, cfg.GoogleClientSecret)
	}

	srv, err := server.New(cfg, sessions, codec, directory, exchanger)
	if err != nil {
		return errors.Wrap(err, "server.New")
	}

	httpServer := &http.Server{Addr: cfg.Port, Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer, cfg.ShutdownTimeout)
}

func newDirectory(ctx context.Context, cfg config.Config) (users.Directory, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set, using in-memory user directory (single instance only)")
		return repofake.NewFakeDirectory(), func() {}, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(pingCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "pgxpool.New")
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, errors.Wrap(err, "postgres ping")
	}
	return pgrepo.NewDirectory(pool), pool.Close, nil
}

func newRefreshStore(ctx context.Context, cfg config.Config) (refresh.Store, func(), error) {
	if cfg.RedisAddr == "" {
		log.Warn().Msg("REDIS_ADDR not set, using in-memory refresh store: sessions will not survive restarts or be shared across instances")
		return refresh.NewInMemoryStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, errors.Wrap(err, "redis ping")
	}
	return redisrepo.NewStore(client), func() { _ = client.Close() }, nil
}

func setupLogging(cfg config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Env == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func listenAndServe(httpServer *http.Server) {
	log.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
