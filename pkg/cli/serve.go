package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/butler/pkg/cli/config"
	httpctrl "github.com/secmon-lab/butler/pkg/controller/http"
	"github.com/secmon-lab/butler/pkg/service/embedding"
	"github.com/secmon-lab/butler/pkg/service/worker"
	"github.com/secmon-lab/butler/pkg/usecase"
	"github.com/secmon-lab/butler/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var warmUsers []string
	var warmInterval time.Duration
	var repoCfg config.Repository
	var openaiCfg config.OpenAI
	var butlerCfg config.Butler

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("BUTLER_ADDR"),
			Destination: &addr,
		},
		&cli.StringSliceFlag{
			Name:        "warm-users",
			Usage:       "User IDs whose vector cache is warmed periodically",
			Sources:     cli.EnvVars("BUTLER_WARM_USERS"),
			Destination: &warmUsers,
		},
		&cli.DurationFlag{
			Name:        "warm-interval",
			Usage:       "Interval between cache warm cycles",
			Value:       10 * time.Minute,
			Sources:     cli.EnvVars("BUTLER_WARM_INTERVAL"),
			Destination: &warmInterval,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, openaiCfg.Flags()...)
	flags = append(flags, butlerCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			llmClient, err := openaiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure OpenAI client")
			}
			if llmClient == nil {
				logging.Default().Warn("OpenAI API key not configured, semantic retrieval disabled")
			} else {
				logging.Default().Info("OpenAI embedding client enabled", "openai", openaiCfg)
			}

			svcCfg, err := butlerCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load retrieval tuning")
			}

			uc := usecase.New(repo, embedding.New(llmClient), usecase.WithButlerConfig(svcCfg))

			var warmWorker *worker.CacheWarmWorker
			if len(warmUsers) > 0 {
				warmWorker = worker.NewCacheWarmWorker(uc.Context, warmUsers, warmInterval)
				if err := warmWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start cache warm worker")
				}
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				if warmWorker != nil {
					warmWorker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
