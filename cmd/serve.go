package cmd

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/drpaneas/gitinsight/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analyses over HTTP",
	Long: `Start the HTTP API. Analyses are exposed under /api and every client IP is
rate limited independently.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.ValidateServer(); err != nil {
			return err
		}
		level := slog.LevelInfo
		if cfg.Verbose {
			level = slog.LevelDebug
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		a, err := newAnalyzer()
		if err != nil {
			return err
		}
		router := server.NewRouter(a, server.Options{
			Version:     version,
			RateLimit:   cfg.RateLimit,
			RateBurst:   cfg.RateBurst,
			CORSOrigins: cfg.CORSOrigins,
		})
		return server.Run(cmd.Context(), cfg.Addr, router)
	},
}

func init() {
	flags := serveCmd.Flags()
	flags.String("addr", ":8080", "Listen address")
	flags.Float64("rate-limit", 1, "Requests per second allowed per client IP")
	flags.Int("rate-burst", 5, "Burst size per client IP")
	flags.StringSlice("cors-origins", []string{"*"}, "Allowed CORS origins")
	cobra.CheckErr(v.BindPFlags(flags))
	rootCmd.AddCommand(serveCmd)
}
