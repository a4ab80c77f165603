package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-tangra/go-tangra-hardware/cmd/collector/assets"
	"github.com/go-tangra/go-tangra-hardware/internal/config"
	"github.com/go-tangra/go-tangra-hardware/internal/logger"
	"github.com/go-tangra/go-tangra-hardware/internal/server"
	"github.com/go-tangra/go-tangra-hardware/internal/store"
	"github.com/go-tangra/go-tangra-hardware/internal/winsvc"
)

var (
	version    = "dev"
	commitHash = "unknown"
	buildDate  = "unknown"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "hardware-collector",
	Short: "Hardware Collector - HTTP daemon that stores hardware snapshots",
	Long: `Hardware Collector receives cross-source hardware snapshots from
hardware-probe clients and stores them in a local SQLite database.

Run without a subcommand to start the daemon (equivalent to 'serve').`,
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the collector daemon",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hardware-collector %s (commit: %s, built: %s)\n", version, commitHash, buildDate)
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Purge snapshots older than the specified number of days",
	RunE:  runPurge,
}

var purgeDays int

const serviceName = "TangraHardwareCollector"

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage Windows service installation",
}

var serviceInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install as a Windows service",
	RunE:  runServiceInstall,
}

var serviceUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall the Windows service",
	RunE:  runServiceUninstall,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./configs/collector.yaml)")
	rootCmd.PersistentFlags().String("http-listen", "", "HTTP listen address (default :9560)")
	rootCmd.PersistentFlags().String("database", "", "SQLite database path (default hardware.db)")
	rootCmd.PersistentFlags().String("api-secret", "", "secret for API clients (empty = no auth)")

	purgeCmd.Flags().IntVar(&purgeDays, "days", 90, "purge snapshots older than this many days")

	serviceCmd.AddCommand(serviceInstallCmd)
	serviceCmd.AddCommand(serviceUninstallCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(serviceCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// CLI flag overrides.
	if v, _ := cmd.Flags().GetString("http-listen"); v != "" {
		cfg.HTTPListen = v
	}
	if v, _ := cmd.Flags().GetString("database"); v != "" {
		cfg.DatabasePath = v
	}
	if v, _ := cmd.Flags().GetString("api-secret"); v != "" {
		cfg.ApiSecret = v
	}

	// Windows service mode: log records go to the event log.
	if winsvc.IsWindowsService() {
		log, err := logger.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		if w, err := winsvc.EventLogWriter(serviceName); err == nil {
			log = logger.NewWriter(w, cfg.Log.Debug)
		}
		return winsvc.RunService(serviceName, log, func(ctx context.Context) error {
			return server.Run(ctx, cfg, log, assets.OpenApiData)
		})
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	// Interactive mode: shut down on SIGINT / SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, cfg, log, assets.OpenApiData)
}

func runServiceInstall(_ *cobra.Command, _ []string) error {
	exePath, err := winsvc.ExePath()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{Output: "stderr"})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	var svcArgs []string
	svcArgs = append(svcArgs, "serve")
	if cfgFile != "" {
		svcArgs = append(svcArgs, "--config", cfgFile)
	}

	if err := winsvc.Install(
		serviceName,
		"Tangra Hardware Collector",
		"Receives hardware snapshots from probes and stores them locally.",
		exePath,
		svcArgs,
		log,
	); err != nil {
		return err
	}

	fmt.Printf("Service %s installed successfully\n", serviceName)
	return nil
}

func runServiceUninstall(_ *cobra.Command, _ []string) error {
	if err := winsvc.Uninstall(serviceName); err != nil {
		return err
	}
	fmt.Printf("Service %s uninstalled successfully\n", serviceName)
	return nil
}

func runPurge(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("database"); v != "" {
		cfg.DatabasePath = v
	}

	db, err := store.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	n, err := db.Purge(context.Background(), time.Duration(purgeDays)*24*time.Hour)
	if err != nil {
		return fmt.Errorf("purge: %w", err)
	}

	fmt.Printf("Purged %d snapshots older than %d days\n", n, purgeDays)
	return nil
}
