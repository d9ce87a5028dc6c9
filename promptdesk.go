// Package promptdesk provides a high-level façade over the HTTP server,
// provider adapters and storage services (sessions, artifacts & logging)
// enabling rapid construction of the chat & image playground. Most
// applications interact with this package by:
//  1. Creating a PromptDesk via New() (optionally overriding default services)
//  2. Calling Run() with a signal-aware context
//
// The façade wires the retention sweeper to the artifact store and ties both
// to the server lifecycle: the sweeper starts with the server and is stopped
// at graceful shutdown so the background loop never prevents process exit.
// All defaults are safe for local development; production deployments
// typically supply the sqlite session backend and a structured logger.
package promptdesk

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/promptdesk/artifact"
	"github.com/hupe1980/promptdesk/config"
	"github.com/hupe1980/promptdesk/core"
	"github.com/hupe1980/promptdesk/logging"
	"github.com/hupe1980/promptdesk/model"
	anthropicmodel "github.com/hupe1980/promptdesk/model/anthropic"
	openaimodel "github.com/hupe1980/promptdesk/model/openai"
	"github.com/hupe1980/promptdesk/server"
	"github.com/hupe1980/promptdesk/session"
	sqlitesession "github.com/hupe1980/promptdesk/session/sqlite"
)

// Options configures the PromptDesk instance.
type Options struct {
	// Config drives addresses, TTLs, provider model ids and store choices.
	Config *config.Config

	// Stores (default to config-driven implementations if not provided).
	ArtifactStore core.ArtifactStore
	SessionStore  core.SessionStore

	// Models (default to the official OpenAI / Anthropic adapters).
	ChatModels map[string]model.ChatModel
	ImageModel model.ImageModel

	// Logger (defaults to a slog adapter honoring the logging config).
	Logger logging.Logger
}

// PromptDesk aggregates the HTTP server, the artifact retention sweeper and
// the services they share.
type PromptDesk struct {
	cfg     *config.Config
	logger  logging.Logger
	server  *server.Server
	sweeper *artifact.Sweeper
	closers []io.Closer
}

// New creates a new PromptDesk instance with optional overrides. Any unset
// service is initialized from the configuration.
func New(optFns ...func(o *Options)) (*PromptDesk, error) {
	opts := Options{Config: config.Default()}
	for _, fn := range optFns {
		fn(&opts)
	}
	cfg := opts.Config

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewSlogAdapter(newSlogFromConfig(cfg.Logging))
	}

	var closers []io.Closer

	artifacts := opts.ArtifactStore
	if artifacts == nil {
		fsStore, err := artifact.NewFSStore(cfg.Artifacts.Dir, func(o *artifact.FSOptions) {
			o.Ext = cfg.Artifacts.Ext
		})
		if err != nil {
			return nil, err
		}
		artifacts = fsStore
	}

	sessions := opts.SessionStore
	if sessions == nil {
		switch cfg.Sessions.Backend {
		case "sqlite":
			store, err := sqlitesession.NewStore(cfg.Sessions.DSN)
			if err != nil {
				return nil, err
			}
			sessions = store
			closers = append(closers, store)
		default:
			sessions = session.NewInMemoryStore()
		}
	}

	chatModels := opts.ChatModels
	if chatModels == nil {
		chatModels = map[string]model.ChatModel{
			"gpt": openaimodel.NewModel(func(o *openaimodel.Options) {
				o.Model = cfg.Providers.OpenAIModel
			}),
			"claude": anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
				o.Model = anthropicsdk.Model(cfg.Providers.AnthropicModel)
				o.MaxTokens = cfg.Providers.AnthropicMaxTokens
			}),
		}
	}

	imageModel := opts.ImageModel
	if imageModel == nil {
		imageModel = openaimodel.NewModel(func(o *openaimodel.Options) {
			o.ImageModel = cfg.Providers.ImageModel
			o.ImageSize = cfg.Providers.ImageSize
		})
	}

	sweeper := artifact.NewSweeper(artifacts, func(o *artifact.SweeperOptions) {
		o.TTL = cfg.Artifacts.TTL()
		o.Interval = cfg.Artifacts.SweepInterval()
		o.Logger = logger
	})

	srv := server.New(chatModels, imageModel, func(o *server.Options) {
		o.Artifacts = artifacts
		o.Sessions = sessions
		o.Logger = logger
		o.RateRPS = cfg.RateLimit.RPS
		o.RateBurst = cfg.RateLimit.Burst
	})

	return &PromptDesk{
		cfg:     cfg,
		logger:  logger,
		server:  srv,
		sweeper: sweeper,
		closers: closers,
	}, nil
}

// Run starts the retention sweeper and serves HTTP until ctx is cancelled,
// then stops both gracefully.
func (p *PromptDesk) Run(ctx context.Context) error {
	p.sweeper.Start()
	defer p.sweeper.Stop()

	err := p.server.ListenAndServe(ctx, p.cfg.Server.Addr)

	for _, c := range p.closers {
		if cerr := c.Close(); cerr != nil {
			p.logger.Warn("failed to close service", "error", cerr)
		}
	}
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// newSlogFromConfig builds a slog.Logger honoring the logging configuration.
func newSlogFromConfig(cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: logging.ParseLevel(cfg.Level)}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
