package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/butler/pkg/cli/config"
	"github.com/secmon-lab/butler/pkg/service/embedding"
	"github.com/secmon-lab/butler/pkg/usecase"
	"github.com/secmon-lab/butler/pkg/utils/logging"
)

func cmdSearch() *cli.Command {
	var userID string
	var limit int
	var threshold float64
	var repoCfg config.Repository
	var openaiCfg config.OpenAI
	var butlerCfg config.Butler

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user-id",
			Usage:       "User ID to search chunks for",
			Required:    true,
			Sources:     cli.EnvVars("BUTLER_USER_ID"),
			Destination: &userID,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of results (0 uses the service default)",
			Destination: &limit,
		},
		&cli.FloatFlag{
			Name:        "threshold",
			Usage:       "Minimum similarity score (0 uses the service default)",
			Destination: &threshold,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, openaiCfg.Flags()...)
	flags = append(flags, butlerCfg.Flags()...)

	return &cli.Command{
		Name:      "search",
		Usage:     "Search the vector store and print scored chunks",
		ArgsUsage: "<query>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return goerr.New("exactly one query argument is required")
			}
			query := c.Args().First()

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

			svcCfg, err := butlerCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load retrieval tuning")
			}

			uc := usecase.New(repo, embedding.New(llmClient), usecase.WithButlerConfig(svcCfg))

			results := uc.Context.VectorSearch(ctx, userID, query, limit, threshold)
			if len(results) == 0 {
				color.New(color.FgYellow).Fprintln(os.Stdout, "No matching chunks found")
				return nil
			}

			title := color.New(color.FgCyan, color.Bold)
			score := color.New(color.FgGreen)
			for i, sc := range results {
				title.Fprintf(os.Stdout, "%d. %s\n", i+1, chunkLabel(sc.Chunk.Metadata.Title, string(sc.Chunk.ID)))
				score.Fprintf(os.Stdout, "   score: %.2f", sc.Score)
				if sc.Chunk.Metadata.Source != "" {
					fmt.Fprintf(os.Stdout, "  source: %s", sc.Chunk.Metadata.Source)
				}
				fmt.Fprintln(os.Stdout)
				fmt.Fprintf(os.Stdout, "   %s\n", sc.Chunk.Content)
			}

			return nil
		},
	}
}

func chunkLabel(title, id string) string {
	if title != "" {
		return title
	}
	return id
}
