// Package cmd wires the gitinsight command-line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/drpaneas/gitinsight/internal/analysis"
	"github.com/drpaneas/gitinsight/internal/apperr"
	"github.com/drpaneas/gitinsight/internal/config"
	"github.com/drpaneas/gitinsight/internal/ghfetch"
	"github.com/drpaneas/gitinsight/internal/insight"
	"github.com/drpaneas/gitinsight/internal/llm"
)

// Set by the linker at release time.
var version = "dev"

// v collects flags, environment and the optional config file.
var v = config.NewViper()

// cfg is the resolved configuration, populated before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "gitinsight",
	Short: "AI-assisted analysis of GitHub repositories and developer profiles.",
	Long: `gitinsight fetches a repository or profile from GitHub, asks an LLM for a
structured assessment, and combines both into a single report.`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("provider", "anthropic", "LLM provider: openai, anthropic, ollama")
	flags.String("model", "", "LLM model (default: per-provider)")
	flags.Bool("verbose", false, "Enable verbose logging")
	flags.Bool("json", false, "Print the raw JSON result")
	flags.Bool("no-color", false, "Disable colored output")
	cobra.CheckErr(v.BindPFlags(flags))
}

// setup loads .env and the configuration, then installs the default logger.
func setup(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	c, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = c

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if cfg.NoColor {
		color.NoColor = true
	}
	return nil
}

// newAnalyzer builds the fetch, insight and analysis stages from cfg.
func newAnalyzer() (*analysis.Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fetcher, err := ghfetch.NewFetcher(cfg.GitHubToken, ghfetch.WithContributionsURL(cfg.ContributionsURL))
	if err != nil {
		return nil, fmt.Errorf("creating github fetcher: %w", err)
	}
	provider, err := llm.NewProvider(cfg.ProviderConfig())
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	slog.Debug("analyzer ready", "provider", cfg.Provider, "model", cfg.Model, "authenticated", cfg.GitHubToken != "")
	return analysis.New(fetcher, insight.New(provider), analysis.WithSymbolFallback(cfg.SymbolFallback)), nil
}

// Execute runs the root command. Classified failures are reported with their
// user-facing message; the full chain is logged at debug level.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	if apperr.KindOf(err) != "" {
		slog.Debug("analysis failed", "error", err)
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %s\n", apperr.UserMessage(err))
	} else {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
