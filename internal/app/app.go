// internal/app/app.go
package app

import (
	"context"
	"errors"
	"net/http"

	"committee-matcher/internal/common/completion"
	"committee-matcher/internal/common/config"
	"committee-matcher/internal/common/logger"
	"committee-matcher/internal/common/observability"
	"committee-matcher/internal/common/server"
	committeematch "committee-matcher/internal/handlers/committee-match"
)

// App holds the assembled HTTP service.
type App struct {
	config *config.Config
	logger logger.Logger
	router http.Handler
	server *server.Server
}

// New builds the completion client, the match handler and the router.
func New(cfg *config.Config, log logger.Logger, obs *observability.Observability) (*App, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if obs == nil {
		obs = observability.NewNoop()
	}

	matchCfg := committeematch.ConfigFromApp(cfg)
	client := completion.NewClient(completion.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   matchCfg.Model,
		Timeout: config.GetDuration(cfg.OpenAI.Timeout),
	})

	svc, err := committeematch.NewService(committeematch.ServiceDependencies{
		Completer:     client,
		Logger:        log,
		Observability: obs,
	}, matchCfg)
	if err != nil {
		return nil, err
	}
	handler := committeematch.NewHandler(matchCfg, svc, log, obs)

	if !cfg.OpenAI.HasAPIKey() {
		log.Warn("OPENAI_API_KEY is not set; match requests will fail until it is configured", nil)
	}

	router := server.NewRouter(server.RouterOptions{
		Match:          handler,
		Logger:         log,
		Ready:          readiness(cfg),
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
	})

	return &App{
		config: cfg,
		logger: log,
		router: router,
		server: server.New(cfg.Server, router, log),
	}, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("Starting committee matcher", map[string]interface{}{
		"addr":        a.config.Server.Addr(),
		"model":       a.config.OpenAI.Model,
		"environment": a.config.App.Environment,
	})
	return a.server.Run(ctx)
}

func readiness(cfg *config.Config) func() error {
	return func() error {
		if !cfg.OpenAI.HasAPIKey() {
			return errors.New("missing OPENAI_API_KEY")
		}
		return nil
	}
}
