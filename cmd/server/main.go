package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/worklog/modules/authapi"
	"github.com/dmitrymomot/worklog/modules/notesapi"
	"github.com/dmitrymomot/worklog/pkg/auth"
	"github.com/dmitrymomot/worklog/pkg/config"
	"github.com/dmitrymomot/worklog/pkg/email"
	"github.com/dmitrymomot/worklog/pkg/httpserver"
	"github.com/dmitrymomot/worklog/pkg/logger"
	"github.com/dmitrymomot/worklog/pkg/mongo"
	"github.com/dmitrymomot/worklog/pkg/otp"
	"github.com/dmitrymomot/worklog/pkg/secrets"
	"github.com/dmitrymomot/worklog/pkg/session"
	"github.com/dmitrymomot/worklog/pkg/worklog"
	"github.com/dmitrymomot/worklog/storage/mongodb"
)

type appConfig struct {
	// MasterSecret derives every encryption and digest key. The process
	// refuses to start without it; there is no fallback key.
	MasterSecret string `env:"APP_SECRET,required"`
}

func main() {
	ctx := context.Background()

	var logCfg logger.Config
	config.MustLoad(&logCfg)
	log := logger.NewFromConfig(logCfg, logger.WithService("worklog"))

	var appCfg appConfig
	if err := config.Load(&appCfg); err != nil {
		log.ErrorContext(ctx, "invalid configuration", logger.Error(err))
		os.Exit(1)
	}

	codec, err := secrets.New(appCfg.MasterSecret)
	if err != nil {
		log.ErrorContext(ctx, "invalid application secret", logger.Error(err))
		os.Exit(1)
	}

	var mongoCfg mongo.Config
	config.MustLoad(&mongoCfg)
	provider := mongo.NewProvider(mongoCfg)
	db, err := provider.Database(ctx)
	if err != nil {
		log.ErrorContext(ctx, "failed to connect to mongodb", logger.Error(err))
		os.Exit(1)
	}
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.ErrorContext(ctx, "failed to ensure indexes", logger.Error(err))
		os.Exit(1)
	}

	var emailCfg email.Config
	config.MustLoad(&emailCfg)
	sender := newSender(emailCfg, log)

	authSvc := auth.NewService(
		mongodb.NewUserStore(db),
		mongodb.NewAccountStore(db),
		otp.New(mongodb.NewTokenStore(db), codec, otp.WithLogger(log)),
		sender,
		codec,
		auth.WithLogger(log),
	)

	var sessionCfg session.Config
	config.MustLoad(&sessionCfg)
	sessions := session.NewManager(mongodb.NewSessionStore(db, codec), sessionCfg, session.WithLogger(log))

	notes := worklog.NewService(mongodb.NewNoteStore(db), worklog.WithLogger(log))

	authAPIOpts := []authapi.Option{authapi.WithLogger(log)}
	var oidcCfg auth.OIDCConfig
	config.MustLoad(&oidcCfg)
	if oidcCfg.Enabled() {
		authAPIOpts = append(authAPIOpts, authapi.WithOIDC(auth.NewOIDCBridge(oidcCfg)))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpserver.HealthCheckHandler(ctx, log))
	r.Get("/readyz", httpserver.HealthCheckHandler(ctx, log, mongo.Healthcheck(db.Client())))

	r.Mount("/auth", authapi.NewService(authSvc, sessions, authAPIOpts...).Handle())
	r.Mount("/api", notesapi.NewService(notes, sessions).Handle())

	var srvCfg httpserver.Config
	config.MustLoad(&srvCfg)
	srv := httpserver.NewFromConfig(srvCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("server started", slog.String("addr", srvCfg.Addr))
		}),
	)

	if err := srv.Run(ctx, r); err != nil {
		log.ErrorContext(ctx, "server stopped", logger.Error(err))
		os.Exit(1)
	}
}

// newSender picks the Postmark client when a server token is configured and
// falls back to the log-only sender for development.
func newSender(cfg email.Config, log *slog.Logger) email.Sender {
	if cfg.PostmarkServerToken != "" {
		sender, err := email.NewPostmarkClient(cfg)
		if err != nil {
			log.Error("failed to create postmark client", logger.Error(err))
			os.Exit(1)
		}
		return sender
	}
	log.Warn("postmark token not configured, using dev sender")
	return email.NewDevSender(log)
}
