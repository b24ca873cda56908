package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var noAI bool

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run one aggregation and enrichment cycle and print the events as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(!noAI)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if a.cfg.Cache.RefreshTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, a.cfg.Cache.RefreshTimeout)
			defer cancel()
		}

		events, err := a.sync.Run(ctx)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(events, "", "  ")
		if err != nil {
			return fmt.Errorf("encode events: %w", err)
		}
		_, err = fmt.Fprintln(os.Stdout, string(out))
		return err
	},
}

func init() {
	collectCmd.Flags().BoolVar(&noAI, "no-ai", false, "skip the AI providers and use the rule-based enrichment only")
}
