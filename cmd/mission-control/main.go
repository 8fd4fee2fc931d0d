package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alanyang/mission-control/internal/config"
)

var version = "dev"

var (
	v       = config.New()
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "mission-control",
	Short: "Mission Control task coordination server",
	Long: `Mission Control is a task board that AI agents and humans share.
Agents claim tasks, discuss them in per-task threads, @mention each other and
poll for notifications. Running without a subcommand starts the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addPersistentFlags() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	pf.String("port", "3000", "HTTP listen port")
	pf.String("db-driver", config.DriverSQLite, "store driver: sqlite or postgres")
	pf.String("sqlite-path", "data/mission-control.db", "sqlite database file")
	pf.String("database-url", "", "postgres connection string")
	pf.String("log-level", "info", "debug, info, warn or error")
	pf.Bool("mcp", true, "serve MCP tools at /mcp")
	pf.Duration("shutdown-timeout", 10*time.Second, "graceful shutdown timeout")

	if err := bindFlags(v, rootCmd); err != nil {
		panic(err)
	}
}

// bindFlags ties config keys to the persistent flags. A flag only wins when
// set explicitly; otherwise env and file apply.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	pf := cmd.PersistentFlags()
	return errors.Join(
		v.BindPFlag(config.KeyPort, pf.Lookup("port")),
		v.BindPFlag(config.KeyDBDriver, pf.Lookup("db-driver")),
		v.BindPFlag(config.KeySQLitePath, pf.Lookup("sqlite-path")),
		v.BindPFlag(config.KeyDatabaseURL, pf.Lookup("database-url")),
		v.BindPFlag(config.KeyLogLevel, pf.Lookup("log-level")),
		v.BindPFlag(config.KeyMCPEnabled, pf.Lookup("mcp")),
		v.BindPFlag(config.KeyShutdownTimeout, pf.Lookup("shutdown-timeout")),
	)
}

func registerCommands() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(agentsCmd())
	rootCmd.AddCommand(versionCmd())
}

// loadConfig resolves settings and installs the JSON logger at the
// configured level.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	lvl, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
	return cfg, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
