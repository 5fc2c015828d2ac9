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
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bookrec/auth-service/auth"
	"github.com/bookrec/auth-service/cache"
	"github.com/bookrec/auth-service/internal/config"
	"github.com/bookrec/auth-service/loginsession"
	"github.com/bookrec/auth-service/server"
	"github.com/bookrec/auth-service/signup"
	"github.com/bookrec/auth-service/token"
	"github.com/bookrec/auth-service/token/refresh"
	"github.com/bookrec/auth-service/users/sqliterepo"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	ctx := context.Background()

	redisClient, err := newRedisClient(c)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	userRepo, err := sqliterepo.Open(ctx, c.GetDatabasePath())
	if err != nil {
		return errors.Wrap(err, "opening user store")
	}
	defer userRepo.Close()

	idp, err := loginsession.NewOIDCExchanger(ctx, c)
	if err != nil {
		return errors.Wrap(err, "identity provider discovery")
	}

	accessTokens, err := token.New(c)
	if err != nil {
		return errors.Wrap(err, "access token manager")
	}

	authService, err := auth.NewService(auth.Managers{
		LoginSessions: loginsession.NewManager(cache.NewStore(redisClient, c.GetLoginSessionPrefix()), idp, c.GetLoginSessionTTL()),
		SignUpCodes:   signup.NewManager(cache.NewStore(redisClient, c.GetSignUpCodePrefix()), c.GetSignUpCodeTTL()),
		RefreshTokens: refresh.NewManager(cache.NewStore(redisClient, c.GetRefreshTokenPrefix()), c.GetRefreshTokenTTL()),
		AccessTokens:  accessTokens,
	}, userRepo)
	if err != nil {
		return errors.Wrap(err, "auth service")
	}

	srv, err := server.New(c, authService)
	if err != nil {
		return errors.Wrap(err, "server")
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func setupLogging(c config.Config) {
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func newRedisClient(c config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(c.GetRedisURL())
	if err != nil {
		return nil, errors.Wrap(err, "parsing redis url")
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, errors.Wrap(err, "redis ping")
	}
	return client, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
