package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/butler/pkg/cli/config"
	"github.com/secmon-lab/butler/pkg/domain/model"
	"github.com/secmon-lab/butler/pkg/service/embedding"
	"github.com/secmon-lab/butler/pkg/usecase"
	"github.com/secmon-lab/butler/pkg/utils/logging"
)

func cmdGather() *cli.Command {
	var userID string
	var conversationID string
	var projectID string
	var showContext bool
	var repoCfg config.Repository
	var openaiCfg config.OpenAI
	var butlerCfg config.Butler

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user-id",
			Usage:       "User ID to gather context for",
			Required:    true,
			Sources:     cli.EnvVars("BUTLER_USER_ID"),
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "conversation-id",
			Usage:       "Conversation ID for recent activity lookup",
			Destination: &conversationID,
		},
		&cli.StringFlag{
			Name:        "project-id",
			Usage:       "Explicit project scope",
			Destination: &projectID,
		},
		&cli.BoolFlag{
			Name:        "show-context",
			Usage:       "Print the formatted context block after the summary",
			Value:       true,
			Destination: &showContext,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, openaiCfg.Flags()...)
	flags = append(flags, butlerCfg.Flags()...)

	return &cli.Command{
		Name:      "gather",
		Aliases:   []string{"g"},
		Usage:     "Gather context for a message and print the bundle",
		ArgsUsage: "<message>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return goerr.New("exactly one message argument is required")
			}
			message := c.Args().First()

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

			var opts []usecase.GatherOption
			if conversationID != "" {
				opts = append(opts, usecase.WithConversation(conversationID))
			}
			if projectID != "" {
				opts = append(opts, usecase.WithProject(projectID))
			}

			bundle := uc.Context.GatherRelevantContext(ctx, message, userID, opts...)
			printBundleSummary(bundle)

			if showContext && !bundle.Empty() {
				fmt.Println()
				fmt.Println(uc.Context.FormatContextForAI(bundle))
			}

			return nil
		},
	}
}

func printBundleSummary(bundle *model.ContextBundle) {
	header := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgWhite)
	value := color.New(color.FgGreen)

	header.Fprintln(os.Stdout, "Context bundle")
	label.Fprint(os.Stdout, "  confidence: ")
	value.Fprintf(os.Stdout, "%.0f%%\n", bundle.Confidence)

	label.Fprint(os.Stdout, "  sources:    ")
	if len(bundle.Sources) == 0 {
		color.New(color.FgYellow).Fprintln(os.Stdout, "(none)")
	} else {
		for i, src := range bundle.Sources {
			if i > 0 {
				value.Fprint(os.Stdout, ", ")
			}
			value.Fprint(os.Stdout, src.String())
		}
		fmt.Fprintln(os.Stdout)
	}

	counts := []struct {
		name  string
		count int
	}{
		{"knowledge", len(bundle.Knowledge)},
		{"memories", len(bundle.Memories)},
		{"files", len(bundle.Files)},
		{"emails", len(bundle.Emails)},
		{"calendar", len(bundle.Calendar)},
		{"activity", len(bundle.Activity)},
		{"related", len(bundle.Related)},
	}
	for _, c := range counts {
		label.Fprintf(os.Stdout, "  %-11s ", c.name+":")
		value.Fprintf(os.Stdout, "%d\n", c.count)
	}

	if bundle.ProjectContext != nil {
		label.Fprint(os.Stdout, "  project:    ")
		value.Fprintln(os.Stdout, bundle.ProjectContext.Name)
	}
}
