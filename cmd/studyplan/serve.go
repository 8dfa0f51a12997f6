package main

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Roelanb/studyplan/internal/api"
	"github.com/Roelanb/studyplan/internal/config"
	"github.com/Roelanb/studyplan/internal/observability"
	"github.com/Roelanb/studyplan/internal/render"
	"github.com/Roelanb/studyplan/internal/submission"
	"github.com/Roelanb/studyplan/internal/watch"
)

// controlPlane owns the live configuration and builds controllers for new views.
type controlPlane struct {
	log       *zap.SugaredLogger
	cfgPath   string
	converter *render.Markdown

	mu        sync.RWMutex
	cfg       *config.Config
	transport submission.Transport
	mode      submission.ValidationMode
}

func newControlPlane(log *zap.SugaredLogger, cfgPath string, cfg *config.Config) (*controlPlane, error) {
	c := &controlPlane{log: log, cfgPath: cfgPath, converter: render.NewMarkdown()}
	if err := c.apply(cfg); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *controlPlane) apply(cfg *config.Config) error {
	tr, err := submission.NewHTTPTransport(cfg.Upstream.BaseURL, submission.WithPath(cfg.Upstream.Path))
	if err != nil {
		return err
	}
	mode, err := submission.ParseValidationMode(cfg.Form.Validation)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.cfg = cfg
	c.transport = tr
	c.mode = mode
	c.mu.Unlock()
	c.log.Infow("config applied", "upstream", tr.Endpoint(), "validation", mode, "presentation", cfg.Form.Presentation)
	return nil
}

func (c *controlPlane) Reload(ctx context.Context) error {
	cfg, err := config.Load(c.cfgPath)
	if err != nil {
		return err
	}
	return c.apply(cfg)
}

func (c *controlPlane) GetConfig() any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

func (c *controlPlane) ApplyConfig(ctx context.Context, raw []byte) error {
	fileCfg, err := config.Decode(raw)
	if err != nil {
		return err
	}
	cfg, err := config.WithEnv(fileCfg)
	if err != nil {
		return err
	}
	// env overrides stay out of the file
	if c.cfgPath != "" {
		if err := config.Save(c.cfgPath, fileCfg); err != nil {
			return err
		}
	}
	return c.apply(cfg)
}

func (c *controlPlane) NewSubmitter(view submission.View, viewID string) *submission.Controller {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return submission.NewController(c.transport, c.converter, view,
		submission.WithValidation(c.mode),
		submission.WithLogger(c.log.Named("submission")),
		submission.WithName(viewID),
	)
}

func (c *controlPlane) Presentation() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg.Form.Presentation
}

func (c *controlPlane) ViewTTL() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.cfg.Views.TTLSec) * time.Second
}

func (c *controlPlane) Version() string { return version }

// watchConfig reloads the control plane whenever the config file changes.
func watchConfig(ctx context.Context, log *zap.SugaredLogger, ctrl *controlPlane) error {
	w, err := watch.New(watch.Options{File: ctrl.cfgPath, Debounce: 250 * time.Millisecond})
	if err != nil {
		return err
	}
	events, err := w.Start(ctx)
	if err != nil {
		return err
	}
	go func() {
		for ev := range events {
			if err := ctrl.Reload(ctx); err != nil {
				log.Errorw("config reload failed, keeping previous config", "path", ev.Path, "error", err)
				continue
			}
			log.Infow("config reloaded", "path", ev.Path)
		}
	}()
	return nil
}

func newServeCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		addr       string
		noWatch    bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the study plan form",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg *config.Config
				err error
			)
			if configPath != "" {
				cfg, err = config.Load(configPath)
				if err != nil {
					return fmt.Errorf("config error: %w", err)
				}
			} else {
				cfg = config.Default()
				config.ApplyEnv(cfg)
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			if addr != "" {
				cfg.Listen = addr
			}

			logger := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
			defer logger.Sync() //nolint:errcheck
			logger.Infow("config loaded", "path", configPath, "version", cfg.Version, "listen", cfg.Listen)

			ctrl, err := newControlPlane(logger, configPath, cfg)
			if err != nil {
				logger.Errorw("failed to apply config", "error", err)
				return err
			}

			// Root context with graceful shutdown
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if configPath != "" && !noWatch {
				if err := watchConfig(ctx, logger, ctrl); err != nil {
					logger.Warnw("config watch disabled", "path", configPath, "error", err)
				}
			}

			srv := api.New(logger, ctrl, cfg.Listen)
			if err := srv.Start(ctx); err != nil {
				logger.Errorw("failed to start api server", "addr", cfg.Listen, "error", err)
				return err
			}

			<-ctx.Done()
			logger.Infow("signal received, shutting down")

			shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shCtx); err != nil {
				logger.Errorw("graceful shutdown failed", "error", err)
			}
			logger.Infow("shutdown complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config JSON file")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload the config file on change")
	return cmd
}
