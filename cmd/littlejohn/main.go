package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	rdb "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dropDatabas3/littlejohn/internal/auth"
	"github.com/dropDatabas3/littlejohn/internal/cache"
	cachemem "github.com/dropDatabas3/littlejohn/internal/cache/memory"
	cacheredis "github.com/dropDatabas3/littlejohn/internal/cache/redis"
	"github.com/dropDatabas3/littlejohn/internal/config"
	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	ctrl "github.com/dropDatabas3/littlejohn/internal/http/controllers/oauth"
	"github.com/dropDatabas3/littlejohn/internal/http/router"
	svc "github.com/dropDatabas3/littlejohn/internal/http/services/oauth"
	jwtx "github.com/dropDatabas3/littlejohn/internal/jwt"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
	"github.com/dropDatabas3/littlejohn/internal/rate"
	"github.com/dropDatabas3/littlejohn/internal/security/password"
	tokens "github.com/dropDatabas3/littlejohn/internal/security/token"
	storemem "github.com/dropDatabas3/littlejohn/internal/store/memory"
	"github.com/dropDatabas3/littlejohn/internal/store/pg"
	migrations "github.com/dropDatabas3/littlejohn/migrations/postgres"
)

func main() {
	var (
		cfgPath = flag.String("config", "config.yaml", "ruta al archivo de configuración YAML")
		migrate = flag.Bool("migrate", false, "aplica las migraciones de postgres al arrancar")
	)
	flag.Parse()

	// .env es opcional: para dev local. Los valores reales vienen del YAML
	// y de las variables de entorno.
	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Init(logger.Config{ServiceName: "littlejohn"})
		logger.L().Fatal("config load failed", logger.Err(err))
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       getenv("LOG_LEVEL", "info"),
		ServiceName: "littlejohn",
	})
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	var (
		clients   repository.ClientRepository
		users     repository.UserRepository
		tokenRepo repository.AccessTokenRepository
		closeFn   = func() {}
	)
	switch cfg.Storage.Driver {
	case "postgres":
		st, err := pg.New(ctx, cfg.Storage.Postgres.DSN,
			cfg.Storage.Postgres.MaxConns,
			parseDurationOr(cfg.Storage.Postgres.ConnMaxLifetime, 30*time.Minute))
		if err != nil {
			log.Fatal("postgres connect failed", logger.Err(err))
		}
		if *migrate {
			if err := st.Migrate(ctx, migrations.FS); err != nil {
				log.Fatal("migrations failed", logger.Err(err))
			}
			log.Info("migrations applied")
		}
		clients, users, tokenRepo = st, st, st
		closeFn = st.Close
	case "memory":
		st := storemem.New()
		if getenvBool("DEV_SEED", false) {
			devSeed(st, log)
		}
		clients, users, tokenRepo = st, st, st
	default:
		log.Fatal("unknown storage driver", logger.String("driver", cfg.Storage.Driver))
	}
	defer closeFn()

	// --- Cache + rate limiter ---
	var (
		clientCache cache.Cache
		limiter     rate.Limiter
		redisClient *rdb.Client
	)
	if cfg.Cache.Kind == "redis" {
		redisClient = rdb.NewClient(&rdb.Options{Addr: cfg.Cache.Redis.Addr, DB: cfg.Cache.Redis.DB})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("redis ping failed", logger.Err(err))
		}
		defer func() { _ = redisClient.Close() }()
		clientCache = cacheredis.New(redisClient, cfg.Cache.Redis.Prefix)
	} else {
		clientCache = cachemem.New(cfg.CacheDefaultTTL())
	}
	if cfg.Rate.Enabled {
		if redisClient != nil {
			limiter = rate.NewRedisLimiter(redisClient, "rl:", cfg.Rate.Token.Limit, cfg.RateWindow())
		} else {
			limiter = rate.NewMemoryLimiter(cfg.Rate.Token.Limit, cfg.RateWindow())
		}
	}

	// --- Token issuer ---
	var signer *jwtx.Issuer
	if cfg.OAuth2.TokenFormat == svc.TokenFormatJWT {
		signer, err = jwtx.NewIssuer(cfg.OAuth2.JWT.Issuer, cfg.OAuth2.JWT.Secret)
		if err != nil {
			log.Fatal("jwt issuer init failed", logger.Err(err))
		}
	}
	issuer := &svc.StoreTokenIssuer{
		Tokens:    tokenRepo,
		Format:    cfg.OAuth2.TokenFormat,
		JWT:       signer,
		AccessTTL: cfg.AccessTTL(),
	}

	// --- Service + HTTP ---
	tokenSvc := svc.NewTokenService(svc.Deps{
		Authenticator:      auth.NewPasswordAuthenticator(users),
		Clients:            auth.NewStoreClientLoader(clients, clientCache, cfg.CacheDefaultTTL()),
		Issuer:             issuer,
		DefaultScopes:      cfg.OAuth2.DefaultScopes,
		IssueRefreshTokens: cfg.OAuth2.IssueRefreshTokens,
	})

	handler := router.New(router.Deps{
		Token:       ctrl.NewTokenController(tokenSvc),
		RateLimiter: limiter,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			logger.String("addr", cfg.Server.Addr),
			logger.String("storage", cfg.Storage.Driver),
			logger.String("token_format", cfg.OAuth2.TokenFormat))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", logger.Err(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", logger.Err(err))
	}
	log.Info("server stopped")
}

// devSeed carga un client y un usuario de prueba en el store de memoria.
// Solo para desarrollo local (DEV_SEED=1); nunca en prod.
func devSeed(st *storemem.Store, log *zap.Logger) {
	hash, err := password.Hash(password.Default, "password123")
	if err != nil {
		log.Fatal("dev seed failed", logger.Err(err))
	}
	st.SeedClient(&repository.Client{
		ID:         uuid.NewString(),
		ClientID:   "demo-client",
		Name:       "Demo Client",
		Type:       "confidential",
		Scopes:     []string{"read", "write"},
		GrantTypes: []string{"password"},
		SecretHash: tokens.SHA256Base64URL("demo-secret"),
	})
	st.SeedUser(&repository.User{
		ID:           uuid.NewString(),
		Username:     "demo",
		Email:        "demo@example.com",
		PasswordHash: hash,
		Status:       "active",
	})
	log.Info("dev seed loaded",
		logger.String("client_id", "demo-client"),
		logger.String("username", "demo"))
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func parseDurationOr(s string, def time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
