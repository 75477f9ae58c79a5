// eggbalance is a terminal egg-balancing game: keep the egg on the wall by
// blowing at it from the left or the right until the timer runs out.
//
// Usage:
//
//	eggbalance play              - Play in this terminal
//	eggbalance simulate          - Run a headless session with an autopilot
//	eggbalance history           - Browse recorded sessions
//	eggbalance serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60, env EGG_FPS)
//	--seed <value>      - Set RNG seed for reproducible sessions
//	--db <path>         - Set database path (default: ~/.eggbalance/sessions.db, env EGG_DB)
//	--config <path>     - Custom egg.yaml (env EGG_CONFIG)
//	--log-level <level> - debug, info, warn, error (env EGG_LOG_LEVEL)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/egg-balance/internal/config"
)

// env supplies flag defaults; it is parsed before any init runs.
var env, envErr = parseEnv()

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if envErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", envErr)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "eggbalance",
	Short: "Egg Balance - keep the egg on the wall",
	Long: `Egg Balance is a terminal game about keeping an egg upright on a wall.
Blow from the left or the right to push it back whenever it leans.

Available commands:
  play      - Play in this terminal
  simulate  - Run a headless session with an autopilot
  history   - Browse recorded sessions
  serve     - Start SSH server for remote play

Examples:
  eggbalance play
  eggbalance play --hard --mic-wav ./breath.wav
  eggbalance simulate --policy corrective --seed 42
  eggbalance serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", env.FPS, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", env.DBPath, "Path to session database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", env.ConfigPath, "Path to custom egg.yaml")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", env.LogLevel, "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}

func parseEnv() (config.Env, error) {
	e, err := config.ParseEnv()
	if err != nil {
		return config.DefaultEnv(), err
	}
	return e, nil
}

// newLogger creates a component logger writing to w at the global level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// loadConfig loads egg.yaml honoring --config.
func loadConfig() (config.EggConfig, error) {
	cfg, err := config.LoadEgg(flagConfig)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
