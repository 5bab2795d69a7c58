package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aretw0/newsmeme"
	"github.com/aretw0/newsmeme/internal/config"
	"github.com/aretw0/newsmeme/internal/presentation/tui"
	"github.com/aretw0/newsmeme/pkg/dispatcher"
	"github.com/spf13/cobra"
)

type submitFunc func(c *newsmeme.Client, url string) *dispatcher.Pending

func actionCommand(use, short string, submit submitFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " URL",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			return runAction(cmd.Context(), cfg, logger, args[0], submit)
		},
	}
}

var submitCmd = &cobra.Command{
	Use:   "submit URL",
	Short: "Post an arbitrary action and apply the reply",
	Long:  `Posts the given form parameters to URL. A plain success reply has no callback and leaves the page unchanged.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		params, _ := cmd.Flags().GetStringToString("param")
		return runAction(cmd.Context(), cfg, logger, args[0], func(c *newsmeme.Client, url string) *dispatcher.Pending {
			return c.Dispatcher.Submit(url, params, nil)
		})
	},
}

// runAction submits one action against the demo page and prints the outcome.
// The process exits non-zero when the round trip failed.
func runAction(ctx context.Context, cfg *config.Config, logger *slog.Logger, url string, submit submitFunc) error {
	client, err := newsmeme.New(cfg.BaseURL,
		newsmeme.WithUser(cfg.User),
		newsmeme.WithTimeout(cfg.Timeout),
		newsmeme.WithTransportFailureMessage(cfg.TransportFailureMessage),
		newsmeme.WithLogger(logger),
		newsmeme.WithPage(newsmeme.DemoPage(cfg.BaseURL)),
	)
	if err != nil {
		return err
	}
	defer client.Close()

	out, err := submit(client, url).Wait(ctx)
	if err != nil {
		return err
	}

	printer := tui.NewPrinter(os.Stdout, tui.IsTerminal(os.Stdout))
	if err := printer.Outcome(out, client.Page.Journal()); err != nil {
		return err
	}
	return out.Err
}

func init() {
	rootCmd.AddCommand(
		actionCommand("vote-post", "Vote on a post and update its score", func(c *newsmeme.Client, url string) *dispatcher.Pending {
			return c.Actions.VotePost(url)
		}),
		actionCommand("vote-comment", "Vote on a comment and update its score", func(c *newsmeme.Client, url string) *dispatcher.Pending {
			return c.Actions.VoteComment(url)
		}),
		actionCommand("delete-comment", "Delete a comment and fade it out", func(c *newsmeme.Client, url string) *dispatcher.Pending {
			return c.Actions.DeleteComment(url)
		}),
		actionCommand("delete-post", "Delete a post and follow the redirect", func(c *newsmeme.Client, url string) *dispatcher.Pending {
			return c.Actions.DeletePost(url)
		}),
		submitCmd,
	)
	submitCmd.Flags().StringToString("param", nil, "Form parameter as key=value (repeatable)")
}
