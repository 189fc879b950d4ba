package main

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
	"github.com/ewilliams-labs/aestheticify/internal/core/vibes"
	"github.com/ewilliams-labs/aestheticify/internal/platform/logger"
)

const serviceName = "aestheticify"

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Aestheticify generates themed vibes with journal entries and soundtracks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSampleCmd())
	return rootCmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), logger.New(serviceName))
		},
	}
}

func newSampleCmd() *cobra.Command {
	var theme string
	var seed uint64

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print a sampled vibe as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := domain.ParseTheme(theme)
			if err != nil {
				return err
			}
			sampler, err := vibes.NewSampler(seed)
			if err != nil {
				return err
			}
			vibe, err := sampler.Sample(t)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(vibe)
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "random", "Theme to sample (random, aesthetic, minimal, vibrant, nostalgic, dreamy, glitch, cozy)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Sampler seed; 0 uses the current time")
	return cmd
}
