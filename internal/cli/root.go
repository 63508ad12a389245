// Package cli wires the cobra commands around the engine. Configuration
// loading, logger setup and collaborator construction all happen here so
// the engine packages stay free of process concerns.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/logging"
	"github.com/anatolykoptev/go_apply/internal/pipeline"
)

var (
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "go_apply",
	Short: "Search job boards and answer each posting with a tailored resume",
	Long: `go_apply searches the configured job boards, filters the postings,
tailors a resume per job with the configured model, renders it as a
two-column DOCX and records the application in Google Drive, a Google
Sheet and a local tracker.

Credentials come from the environment (a .env file is honored); the
search plan lives in config.json. Run "go_apply setup" once to scaffold
both.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// version must work with a broken or absent config.
		if cmd.Name() == "version" {
			return nil
		}
		return initRuntime()
	},
}

// Execute runs the CLI. Cobra prints the failing command's error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json", "path to config.json")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")
}

// initRuntime loads .env and config.json, installs the logger and seeds
// the engine. Credential validation happens per command; each needs a
// different subset.
func initRuntime() error {
	// Missing .env is normal, the environment may already be set.
	_ = godotenv.Load()

	c, err := engine.LoadConfig(configPath)
	if err != nil {
		return err
	}
	logging.Setup(debug)

	c.HTTPClient = &http.Client{
		Timeout: c.FetchTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     60 * time.Second,
		},
	}
	c.Pacer = engine.NewPacer(c.SearchPerMinute, c.CompletionPerMinute, c.UploadPerMinute)
	if c.OpenAIAPIKey != "" {
		c.LLMClient = engine.NewOpenAIClient(c.OpenAIAPIKey, c.OpenAIBaseURL,
			c.LLMModel, c.LLMTemperature, c.LLMMaxTokens)
	}

	engine.Init(c)
	engine.InitCache(15*time.Minute, 500)
	slog.Debug("engine initialized", "config", configPath,
		"boards", fmt.Sprintf("adzuna=%t reed=%t linkedin=%t",
			c.AdzunaEnabled, c.ReedEnabled, c.LinkedInEnabled))
	return nil
}

// signalContext returns a context canceled on Ctrl+C or SIGTERM so a run
// stops after the job in flight instead of mid-upload.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			slog.Warn("interrupt received, finishing the job in flight")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}

// printSummary renders the run report and writes its JSON twin next to
// the per-job records.
func printSummary(sum *pipeline.RunSummary) {
	if sum == nil {
		return
	}
	fmt.Print(sum.Render())
	if dir := engine.Cfg.ProcessedDir; dir != "" {
		path, err := sum.Write(dir)
		if err != nil {
			slog.Warn("summary not written", "error", err)
			return
		}
		fmt.Println("summary written to", path)
	}
}
