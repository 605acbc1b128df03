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

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/practice-dashboard/internal/config"
	"github.com/jwalitptl/practice-dashboard/internal/email"
	"github.com/jwalitptl/practice-dashboard/internal/fixtures"
	authhandler "github.com/jwalitptl/practice-dashboard/internal/handler/auth"
	"github.com/jwalitptl/practice-dashboard/internal/handler/entity"
	"github.com/jwalitptl/practice-dashboard/internal/handler/health"
	"github.com/jwalitptl/practice-dashboard/internal/handler/records"
	"github.com/jwalitptl/practice-dashboard/internal/handler/stream"
	"github.com/jwalitptl/practice-dashboard/internal/middleware"
	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/internal/notify"
	"github.com/jwalitptl/practice-dashboard/internal/repository"
	"github.com/jwalitptl/practice-dashboard/internal/repository/memory"
	"github.com/jwalitptl/practice-dashboard/internal/repository/postgres"
	redisrepo "github.com/jwalitptl/practice-dashboard/internal/repository/redis"
	"github.com/jwalitptl/practice-dashboard/internal/resource"
	"github.com/jwalitptl/practice-dashboard/internal/router"
	"github.com/jwalitptl/practice-dashboard/internal/session"
	"github.com/jwalitptl/practice-dashboard/pkg/auth"
	"github.com/jwalitptl/practice-dashboard/pkg/authorize"
	"github.com/jwalitptl/practice-dashboard/pkg/errsink"
	"github.com/jwalitptl/practice-dashboard/pkg/logger"
	"github.com/jwalitptl/practice-dashboard/pkg/messaging"
	msgredis "github.com/jwalitptl/practice-dashboard/pkg/messaging/redis"
	"github.com/jwalitptl/practice-dashboard/pkg/metrics"
	"github.com/jwalitptl/practice-dashboard/pkg/security"
	"github.com/jwalitptl/practice-dashboard/pkg/validator"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.ValidateServe(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

// infra is what serve connects to before building handlers.
type infra struct {
	db     *sqlx.DB
	redis  *goredis.Client
	tokens repository.TokenStore
	broker messaging.Broker
	checks map[string]health.Check
}

// Close releases the connections. The broker is closed by serve itself,
// ahead of the HTTP shutdown.
func (i *infra) Close() {
	if i.redis != nil {
		_ = i.redis.Close()
	}
	_ = i.db.Close()
}

func connect(ctx context.Context, cfg *config.Config) (*infra, error) {
	db, err := openDB(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	in := &infra{
		db:     db,
		checks: map[string]health.Check{"database": db.PingContext},
	}

	if cfg.Redis.URL == "" {
		log.Warn().Msg("no Redis configured, token revocation and notices stay in this process")
		in.tokens = memory.NewTokenStore()
		in.broker = messaging.NewMemoryBroker()
		return in, nil
	}

	client, err := msgredis.NewClient(ctx, msgredis.Config{URL: cfg.Redis.URL, PoolSize: cfg.Redis.PoolSize})
	if err != nil {
		db.Close()
		return nil, err
	}
	in.redis = client
	in.tokens = redisrepo.NewTokenStore(client)
	in.broker = msgredis.NewRedisBroker(client, logger.Component("broker"))
	in.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	return in, nil
}

func mailer(cfg config.MailConfig) (email.Service, error) {
	if cfg.Host == "" {
		return email.NewLogService(logger.Component("mail")), nil
	}
	return email.NewSMTPService(email.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
		UseTLS:   cfg.UseTLS,
		ResetURL: cfg.ResetURL,
	})
}

func serve(ctx context.Context, cfg *config.Config) error {
	sink := errsink.New(errsink.Config{
		Enabled:    cfg.ErrorSink.Enabled,
		Path:       cfg.ErrorSink.Path,
		MaxSizeMB:  cfg.ErrorSink.MaxSizeMB,
		MaxBackups: cfg.ErrorSink.MaxBackups,
		MaxAgeDays: cfg.ErrorSink.MaxAgeDays,
		Compress:   true,
	})
	defer func() { _ = sink.Sync() }()

	gin.SetMode(cfg.Server.Mode)
	validator.RegisterBinding()

	in, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer in.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(reg, cfg.Metrics.Namespace)

	issuer, err := auth.NewTokenIssuer(auth.Config{
		SigningKey: []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		TTL:        cfg.JWT.TTL,
	})
	if err != nil {
		return err
	}
	mail, err := mailer(cfg.Mail)
	if err != nil {
		return err
	}

	resolver := session.NewResolver(session.Deps{
		Users:    postgres.NewUserRepository(in.db),
		Profiles: postgres.NewProfileRepository(in.db),
		Tokens:   in.tokens,
		Issuer:   issuer,
		Hasher:   security.NewBcryptHasher(bcrypt.DefaultCost),
		Mailer:   mail,
		Observer: m,
		Logger:   logger.Component("session"),
	}, session.Config{
		ResetTokenTTL: cfg.JWT.ResetTTL,
		SignUpRoles:   []model.Role{model.RoleDoctor, model.RoleSupport},
	})

	authz, err := authorize.New(resource.Policies())
	if err != nil {
		return err
	}

	opts := entity.Options{
		Notifier:    notify.NewPublisher(in.broker, m, logger.Component("notify")),
		Observer:    m,
		Collections: m,
		Logger:      logger.Component("entity"),
	}
	patients := postgres.NewPatientRepository(in.db)
	messages := postgres.NewMessageRepository(in.db)
	resources := append([]router.ResourceHandler{
		entity.NewHandler(resource.PatientDefinition(), patients, opts),
		entity.NewHandler(resource.AppointmentDefinition(), postgres.NewAppointmentRepository(in.db), opts),
		entity.NewHandler(resource.MessageDefinition(), messages, opts),
	}, memoryResources(cfg.Seed, opts)...)

	r := router.NewRouter(middleware.NewAuthMiddleware(resolver, authz), router.Handlers{
		Health:    health.NewHandler(in.checks, reg),
		Account:   authhandler.NewHandler(resolver),
		Resources: resources,
		Records: records.NewHandler(
			patients,
			postgres.NewMedicalNoteRepository(in.db),
			postgres.NewPatientFileRepository(in.db),
			postgres.NewConversationRepository(in.db),
			messages,
		),
		Stream: stream.NewHandler(in.broker, authz, cfg.Server.StreamHeartbeat, logger.Component("stream")),
	}, router.RouterConfig{
		RateLimit: middleware.RateLimiterConfig{
			Rate:  rate.Limit(cfg.RateLimit.RPS),
			Burst: cfg.RateLimit.Burst,
		},
		CORSConfig: corsConfig(cfg.CORS),
		Timeout:    middleware.TimeoutConfig{Duration: cfg.Server.RequestTimeout},
		Security: middleware.SecurityConfig{
			HSTS:       cfg.Server.HSTS,
			HSTSMaxAge: middleware.DefaultSecurityConfig().HSTSMaxAge,
		},
		SizeLimit:     middleware.SizeLimitConfig{MaxBodySize: cfg.Server.MaxBodyBytes},
		MetricsPrefix: cfg.Metrics.Namespace + "_http",
		Registerer:    reg,
	})
	r.Setup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down server...")

	// notice streams only end once their subscription closes
	if err := in.broker.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close broker")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited properly")
	return nil
}

func corsConfig(cfg config.CORSConfig) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	if len(cfg.AllowOrigins) > 0 {
		c.AllowOrigins = cfg.AllowOrigins
	}
	return c
}

// memoryResources builds the pages whose collections have no table yet,
// filled with generated data.
func memoryResources(cfg config.SeedConfig, opts entity.Options) []router.ResourceHandler {
	gen := fixtures.New(cfg.Seed, time.Now())
	n := cfg.Count

	invoices := memory.NewInvoiceStore()
	invoices.Seed(gen.Invoices(n)...)
	staff := memory.NewStaffStore()
	staff.Seed(gen.Staff(n)...)
	suppliers := memory.NewSupplierStore()
	supplierRows := gen.Suppliers(max(n/5, 1))
	suppliers.Seed(supplierRows...)
	products := memory.NewProductStore()
	products.Seed(gen.Products(n, supplierRows)...)
	workflows := memory.NewWorkflowStore()
	workflows.Seed(gen.Workflows(max(n/3, 1))...)
	events := memory.NewSecurityEventStore()
	events.Seed(gen.SecurityEvents(n)...)
	logs := memory.NewLogStore()
	logs.Seed(gen.Logs(n * 4)...)

	return []router.ResourceHandler{
		entity.NewHandler(resource.InvoiceDefinition(), invoices, opts),
		entity.NewHandler(resource.StaffDefinition(), staff, opts),
		entity.NewHandler(resource.ProductDefinition(), products, opts),
		entity.NewHandler(resource.SupplierDefinition(), suppliers, opts),
		entity.NewHandler(resource.WorkflowDefinition(), workflows, opts),
		entity.NewHandler(resource.SecurityEventDefinition(), events, opts),
		entity.NewHandler(resource.LogDefinition(), logs, opts),
	}
}
