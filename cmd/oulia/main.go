package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oulia/oulia/gateway/internal/application"
	"github.com/oulia/oulia/gateway/internal/infrastructure/config"
	"github.com/oulia/oulia/gateway/internal/infrastructure/logger"
)

const (
	appName    = "oulia"
	appVersion = "0.3.0"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          appName,
		Short:        "Oulia: AI concierge for property hosts",
		SilenceUsage: true,
		RunE:         runServe,
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default: search ~/.oulia, ./config, .)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and notification feed",
		RunE:  runServe,
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s v%s\n", appName, appVersion)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "seed <fixture.yaml>",
		Short: "Load a demo host and its properties",
		Args:  cobra.ExactArgs(1),
		RunE:  runSeed,
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, database and language model access",
		RunE:  runDoctor,
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// ─── Server ───

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, level, err := logger.NewLoggerWithLevel(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputPath: cfg.Log.OutputPath,
	})
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer log.Sync()

	log.Info("Starting Oulia", zap.String("version", appVersion), zap.String("config", cfg.Source()))

	if err := config.Bootstrap(log); err != nil {
		log.Warn("Bootstrap failed (non-fatal)", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.WatchLogLevel(cfg.Source(), level, log); err != nil {
		log.Warn("Config hot reload disabled", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := application.NewApp(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info("Received shutdown signal", zap.String("signal", sig.String()))

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	return app.Stop(shutdownCtx)
}

// ─── Seed ───

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, err := logger.NewLogger(logger.Config{Level: "info", Format: "console", OutputPath: "stderr"})
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer log.Sync()

	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	fixture, err := application.ParseSeedFixture(file)
	if err != nil {
		return err
	}

	app, err := application.NewAppCLI(cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	res, err := application.Seed(cmd.Context(), app.Auth(), app.Properties(), fixture, log)
	if err != nil {
		return err
	}

	fmt.Printf("host    %s\n", res.HostID)
	fmt.Printf("token   %s\n", res.Token)
	for _, p := range res.Properties {
		fmt.Printf("%-7s %s  %s\n", "stay", p.Name, p.AccessLink)
	}
	return nil
}

// ─── Doctor ───

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Printf("◇ Oulia Doctor v%s\n\n", appVersion)

	cfg, err := loadConfig(cmd)
	if err != nil {
		printCheck("config", err.Error(), false)
		return err
	}

	source := cfg.Source()
	if source == "" {
		source = "defaults + environment"
	}
	printCheck("config", source, true)

	validateErr := cfg.Validate()
	if validateErr != nil {
		printCheck("settings", validateErr.Error(), false)
	} else {
		printCheck("settings", "ok", true)
	}

	log := zap.NewNop()
	app, err := application.NewAppCLI(cfg, log)
	if err != nil {
		printCheck("database", err.Error(), false)
		return err
	}
	defer app.Close()

	health := app.Health(cmd.Context())
	printCheck("database", cfg.Database.Type+" "+health["database"], health["database"] == "ok")

	allOK := validateErr == nil && health["database"] == "ok"
	if cfg.LLM.APIKey != "" {
		ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
		defer cancel()
		if _, err := app.Model().GenerateText(ctx, "Reply with OK."); err != nil {
			printCheck("language model", err.Error(), false)
			allOK = false
		} else {
			printCheck("language model", cfg.LLM.Model, true)
		}
	}

	fmt.Println()
	if !allOK {
		return fmt.Errorf("some checks failed")
	}
	fmt.Println("All checks passed ✓")
	return nil
}

func printCheck(name, value string, ok bool) {
	icon := "\033[92m✓\033[0m"
	if !ok {
		icon = "\033[91m✗\033[0m"
	}
	fmt.Printf("  %s %s: %s\n", icon, name, value)
}
