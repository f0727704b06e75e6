package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"voice-chat/config"
	"voice-chat/internal/application"
	"voice-chat/internal/infra/session"
	"voice-chat/internal/infra/web"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the voice chat web page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			sessions := session.NewStore(
				createStarter(cfg, logger),
				duration(logger, "session.idle_timeout", cfg.Session.IdleTimeout, 0),
				logger,
			)
			sessions.StartJanitor(ctx, duration(logger, "session.sweep_interval", cfg.Session.SweepInterval, 0))

			var microphone application.AudioSource
			mode := web.CaptureUpload
			if cfg.Capture.Mode != "upload" {
				mode = web.CaptureMicrophone
				if microphone, err = createLocalSource(cfg, logger); err != nil {
					return err
				}
			}

			assistant, closeAssistant := newAssistant(cfg, logger)
			defer closeAssistant()

			server, err := web.NewServer(webConfig(cfg, mode, logger), web.Deps{
				Assistant:  assistant,
				Sessions:   sessions,
				Microphone: microphone,
			}, logger)
			if err != nil {
				return err
			}

			logger.Info("starting voice chat",
				"conversation", cfg.Conversation.Provider,
				"recognition", cfg.Recognition.Provider,
				"synthesis", cfg.Synthesis.Provider,
			)

			if err := server.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			logger.Info("shutting down")
			return server.Stop()
		},
	}
}

func webConfig(cfg *config.Config, mode string, logger *slog.Logger) web.Config {
	return web.Config{
		Addr:           cfg.Server.Addr,
		Title:          cfg.Server.Title,
		AboutURL:       cfg.Server.AboutURL,
		CaptureMode:    mode,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimit:      cfg.Server.RateLimit,
		RateWindow:     duration(logger, "server.rate_window", cfg.Server.RateWindow, time.Minute),
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		MaxClips:       cfg.Server.MaxClips,
	}
}
