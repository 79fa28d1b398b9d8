package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/campusgate/internal/bootstrap"
	"github.com/dropDatabas3/campusgate/internal/cache"
	"github.com/dropDatabas3/campusgate/internal/config"
	adminctrl "github.com/dropDatabas3/campusgate/internal/http/controllers/admin"
	authctrl "github.com/dropDatabas3/campusgate/internal/http/controllers/auth"
	"github.com/dropDatabas3/campusgate/internal/http/router"
	adminsvc "github.com/dropDatabas3/campusgate/internal/http/services/admin"
	authsvc "github.com/dropDatabas3/campusgate/internal/http/services/auth"
	jwtx "github.com/dropDatabas3/campusgate/internal/jwt"
	"github.com/dropDatabas3/campusgate/internal/metrics"
	"github.com/dropDatabas3/campusgate/internal/observability/logger"
	"github.com/dropDatabas3/campusgate/internal/rate"
	"github.com/dropDatabas3/campusgate/internal/store"
	"github.com/dropDatabas3/campusgate/internal/store/cached"
	"github.com/dropDatabas3/campusgate/internal/store/memory"
	"github.com/dropDatabas3/campusgate/internal/store/pg"
)

func main() {
	// .env es opcional; en prod todo viene del entorno real.
	_ = godotenv.Load()

	var cfgPath string

	root := &cobra.Command{
		Use:           "campusgate",
		Short:         "Servicio de autenticación y autorización por roles",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Ruta al config.yaml (opcional)")

	root.AddCommand(serveCmd(&cfgPath))
	root.AddCommand(seedAdminCmd(&cfgPath))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}

			logger.Init(logger.Config{
				Env:         cfg.App.Env,
				Level:       cfg.App.LogLevel,
				ServiceName: "campusgate",
			})
			log := logger.L()
			defer log.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			repo, cleanup, err := buildRepo(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
				return err
			}

			priv, err := jwtx.LoadOrCreateKey(cfg.JWT.KeyPath)
			if err != nil {
				return err
			}
			issuer := jwtx.NewIssuer(cfg.JWT.Issuer, priv, config.Duration(cfg.JWT.AccessTTL))

			// Cache compartido: read-through del store y ventanas del limiter.
			cacheClient := cache.New(cache.Config{
				Driver: cfg.Cache.Kind,
				Addr:   cfg.Cache.Redis.Addr,
				DB:     cfg.Cache.Redis.DB,
				Prefix: cfg.Cache.Redis.Prefix,
			})
			defer cacheClient.Close() //nolint:errcheck

			repo = cached.New(repo, cacheClient, config.Duration(cfg.Cache.TTL))

			var loginLimiter rate.Limiter
			if cfg.Rate.Enabled {
				loginLimiter = rate.NewWindowLimiter(
					cacheClient, "rl:login",
					cfg.Rate.Login.Limit, config.Duration(cfg.Rate.Login.Window),
				)
			}

			if err := bootstrap.SeedSuperAdmin(ctx, repo, cfg.Seed.SuperAdminEmail, cfg.Seed.SuperAdminSecret); err != nil {
				return err
			}

			storeTimeout := config.Duration(cfg.Storage.Timeout)
			authServices := authsvc.NewServices(authsvc.Deps{Repo: repo, Issuer: issuer, StoreTimeout: storeTimeout})
			adminServices := adminsvc.NewServices(adminsvc.Deps{Repo: repo, Issuer: issuer, StoreTimeout: storeTimeout})

			handler := router.New(router.Deps{
				Auth:         authctrl.NewControllers(authServices),
				Admin:        adminctrl.NewControllers(adminServices),
				Issuer:       issuer,
				Repo:         repo,
				LoginLimiter: loginLimiter,
			})

			srv := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      handler,
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Info("servidor escuchando", logger.String("addr", cfg.Server.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				log.Info("apagando servidor")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Duration(cfg.Server.ShutdownTimeout))
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
}

func seedAdminCmd(cfgPath *string) *cobra.Command {
	var email, secret string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Crea el SuperAdmin inicial si no existe",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, ServiceName: "campusgate"})

			if email == "" {
				email = cfg.Seed.SuperAdminEmail
			}
			if secret == "" {
				secret = cfg.Seed.SuperAdminSecret
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			repo, cleanup, err := buildRepo(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			return bootstrap.SeedSuperAdmin(ctx, repo, email, secret)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email del SuperAdmin (default: config/env)")
	cmd.Flags().StringVar(&secret, "secret", "", "Secret inicial; vacío genera uno aleatorio")
	return cmd
}

// buildRepo arma el Repository según el driver configurado.
func buildRepo(ctx context.Context, cfg *config.Config) (store.Repository, func(), error) {
	switch cfg.Storage.Driver {
	case "postgres":
		repo, err := pg.New(ctx, cfg.Storage.DSN, cfg.Storage.Postgres.MaxConns)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			repo.Close()
			return nil, nil, err
		}
		return repo, repo.Close, nil
	default:
		return memory.New(), func() {}, nil
	}
}
