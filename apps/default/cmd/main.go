package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	aconfig "github.com/antinvestor/service-accounts/apps/default/config"
	"github.com/antinvestor/service-accounts/apps/default/service/authz"
	"github.com/antinvestor/service-accounts/apps/default/service/business"
	"github.com/antinvestor/service-accounts/apps/default/service/handlers"
	"github.com/antinvestor/service-accounts/apps/default/service/identity"
	"github.com/antinvestor/service-accounts/apps/default/service/repository"
	"github.com/antinvestor/service-accounts/internal/health"
	"github.com/antinvestor/service-accounts/internal/ratelimit"
	"github.com/pitabwire/frame"
	"github.com/pitabwire/frame/config"
	"github.com/pitabwire/frame/datastore"
	"github.com/pitabwire/frame/datastore/pool"
	"github.com/pitabwire/util"
)

// runService initializes and starts the accounts service with all dependencies.
func runService(ctx context.Context) error {
	// Initialize configuration
	cfg, err := config.LoadWithOIDC[aconfig.AccountsConfig](ctx)
	if err != nil {
		util.Log(ctx).With("err", err).Error("could not process configs")
		return err
	}

	if cfg.Name() == "" {
		cfg.ServiceName = "service_accounts"
	}

	if err = cfg.Validate(); err != nil {
		util.Log(ctx).WithError(err).Error("configuration is not valid")
		return err
	}

	// Create service
	ctx, svc := frame.NewServiceWithContext(
		ctx,
		frame.WithConfig(&cfg),
		frame.WithDatastore(),
	)
	defer svc.Stop(ctx)
	log := svc.Log(ctx)

	workMan := svc.WorkManager()

	dbManager := svc.DatastoreManager()
	dbPool := dbManager.GetPool(ctx, datastore.DefaultPoolName)

	// Handle database migration if requested
	if cfg.DoDatabaseMigrate() {
		if err = repository.Migrate(ctx, svc, cfg.GetDatabaseMigrationPath()); err != nil {
			log.WithError(err).Fatal("main -- Could not migrate successfully")
		}
		return nil
	}

	// Administrative gateway to the identity provider
	gateway := identity.NewClient(ctx, identity.Config{
		BaseURL:             cfg.IdentityProviderURI,
		ServiceKey:          cfg.IdentityServiceKey,
		Timeout:             cfg.IdentityRequestTimeout(),
		BreakerMaxFailures:  int64(cfg.IdentityBreakerMaxFailures),
		BreakerResetTimeout: cfg.IdentityBreakerResetTimeout(),
	})

	// Repositories over the role ledger
	profileRepo := repository.NewProfileRepository(ctx, dbPool, workMan)
	webhookRepo := repository.NewWebhookRepository(ctx, dbPool, workMan)
	voiceRepo := repository.NewVoiceRepository(ctx, dbPool, workMan)
	preferenceRepo := repository.NewPreferenceRepository(ctx, dbPool, workMan)

	auditLogger := authz.NewAuditLogger(authz.AuditLoggerConfig{
		Enabled:    cfg.AuthzAuditEnabled,
		SampleRate: cfg.AuthzAuditSampleRate,
	})

	// Business layer
	accountBiz := business.NewAccountBusiness(profileRepo, gateway, auditLogger)
	webhookBiz := business.NewWebhookBusiness(profileRepo, webhookRepo)
	voiceBiz := business.NewVoiceBusiness(profileRepo, voiceRepo)
	preferenceBiz := business.NewPreferenceBusiness(preferenceRepo)

	// REST surface
	apiMux := handlers.NewRouter(handlers.RouterDeps{
		Auth: handlers.NewAuthMiddleware(gateway, accountBiz),
		PreAuthLimit: handlers.NewRateLimitMiddleware(
			ratelimit.NewLimiter(cfg.PreAuthRateLimit, cfg.PreAuthRateWindow())),
		GeneralLimit: handlers.NewRateLimitMiddleware(
			ratelimit.NewLimiter(cfg.GeneralRateLimit, cfg.GeneralRateWindow())),
		AdminLimit: handlers.NewRateLimitMiddleware(
			ratelimit.NewLimiter(cfg.AdminRateLimit, cfg.AdminRateWindow())),
		Accounts: handlers.NewAccountsServer(accountBiz),
		Settings: handlers.NewSettingsServer(webhookBiz, voiceBiz, preferenceBiz),
	})

	// Setup health checks
	healthHandler := setupHealthChecks(ctx, dbPool, &cfg)

	// Create multiplexer for HTTP handlers
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", healthHandler.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.Handle("/", apiMux)

	// Initialize the service with all options
	svc.Init(ctx, frame.WithHTTPHandler(mux))

	// Start the service
	return svc.Run(ctx, "")
}

func main() {
	ctx := context.Background()
	if err := runService(ctx); err != nil {
		util.Log(ctx).WithError(err).Fatal("could not run service")
	}
}

// setupHealthChecks creates the health check handler with database and
// identity-provider checkers.
func setupHealthChecks(_ context.Context, dbPool pool.Pool, cfg *aconfig.AccountsConfig) *health.Handler {
	handler := health.NewHandler()

	dbChecker := health.NewDatabaseChecker(dbPool, 5*time.Second)
	handler.AddChecker(dbChecker)

	if cfg.IdentityProviderURI != "" {
		probeURL := strings.TrimSuffix(cfg.IdentityProviderURI, "/") + "/health"
		probeClient := &http.Client{Timeout: 5 * time.Second}
		handler.AddChecker(health.NewPingChecker("identity_provider", func(ctx context.Context) error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
			if err != nil {
				return err
			}
			resp, err := probeClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= http.StatusInternalServerError {
				return fmt.Errorf("identity provider returned status %d", resp.StatusCode)
			}
			return nil
		}, 5*time.Second))
	}

	return handler
}
