// Package cmd wires the strata CLI: the root command runs one full bootstrap,
// subcommands inspect its pieces.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/strata/internal/bootstrap"
	"github.com/zjrosen/strata/internal/config"
	"github.com/zjrosen/strata/internal/flags"
	"github.com/zjrosen/strata/internal/infrastructure/sqlite"
	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/presentation"
	"github.com/zjrosen/strata/internal/registry"
	"github.com/zjrosen/strata/internal/resource"
	"github.com/zjrosen/strata/internal/tracing"
)

// localConfigPath is the project-local tool config checked before the user
// config directory.
const localConfigPath = ".strata/config.yaml"

var (
	version    = "dev"
	cfgFile    string
	cfg        config.Config
	logCleanup func()

	registryFile  string
	flagLocations []string
	flagNames     []string
	flagProfiles  []string
)

var rootCmd = &cobra.Command{
	Use:   "strata",
	Short: "Layered configuration resolution with ordered contributors",
	Long: `Strata resolves layered application configuration the way a framework
bootstrap does: profile activation with first-wins locking, property-source
precedence, multi-format document loading and condition-gated contributor
ordering, with every step observable.

Without a subcommand strata performs one full bootstrap run and prints the
report. Inspection subcommands re-run the pipeline without recording history.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runRoot,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"tool config file (default: .strata/config.yaml, then ~/.config/strata/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&registryFile, "registry", "",
		"registry file replacing the embedded capability table")
	rootCmd.PersistentFlags().StringArrayVar(&flagLocations, "location", nil,
		"search location root or literal file (repeatable, overrides defaults)")
	rootCmd.PersistentFlags().StringArrayVar(&flagNames, "name", nil,
		"config file base name (repeatable, default: application)")
	rootCmd.PersistentFlags().StringArrayVarP(&flagProfiles, "profile", "p", nil,
		"profile to activate ahead of any document (repeatable)")

	rootCmd.Flags().StringArray("exclude", nil, "contributor ID to exclude (repeatable)")
	rootCmd.Flags().String("format", "", "output format: text or json (overrides config)")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("history.enabled", defaults.History.Enabled)
	viper.SetDefault("history.keep", defaults.History.Keep)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
	viper.SetDefault("output.format", defaults.Output.Format)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .strata/config.yaml (current directory)
		// 2. ~/.config/strata/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "strata"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	// A missing config file is fine; strata config init writes one.
	_ = viper.ReadInConfig()
	_ = viper.Unmarshal(&cfg)

	applyLogging()
}

// applyLogging initializes the global logger when a sink is configured.
// Without one logging stays off and command output is the only channel.
func applyLogging() {
	logPath := cfg.Logging.File
	if env := os.Getenv("STRATA_LOG"); env != "" {
		logPath = env
	}
	if logPath == "" {
		return
	}
	cleanup, err := log.Init(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot open log file %s: %v\n", logPath, err)
		return
	}
	logCleanup = cleanup
	log.SetMinLevel(parseLevel(cfg.Logging.Level))
}

func parseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}

// loadRegistry returns the capability table: an explicit --registry file
// replaces the embedded default.
func loadRegistry() (*registry.Registry, error) {
	if registryFile != "" {
		return registry.LoadFile(registryFile)
	}
	return registry.Default()
}

// newTracer builds a tracing provider from the tool config. Disabled tracing
// yields a no-op provider.
func newTracer() (*tracing.Provider, error) {
	tc := tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		FilePath:     cfg.Tracing.FilePath,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
		ServiceName:  "strata",
	}
	if tc.FilePath == "" {
		tc.FilePath = config.DefaultTracesFilePath()
	}
	return tracing.NewProvider(tc)
}

// openHistory opens the run-history store, creating it on first use. A nil
// return without error means recording is disabled.
func openHistory() (*sqlite.DB, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	path := cfg.History.Path
	if path == "" {
		path = config.DefaultHistoryPath()
	}
	if path == "" {
		return nil, nil
	}
	return sqlite.NewDB(path)
}

// pipelineConfig assembles a bootstrap configuration from the persistent
// flags and the loaded tool config. History and broker stay nil unless the
// caller wires them.
func pipelineConfig() (bootstrap.Config, error) {
	if err := cfg.Validate(); err != nil {
		return bootstrap.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	reg, err := loadRegistry()
	if err != nil {
		return bootstrap.Config{}, err
	}
	tracer, err := newTracer()
	if err != nil {
		return bootstrap.Config{}, err
	}
	return bootstrap.Config{
		Registry:  reg,
		Resolver:  resource.NewOsResolver(),
		Flags:     flags.New(cfg.Flags),
		Tracer:    tracer,
		Locations: flagLocations,
		Names:     flagNames,
		Profiles:  flagProfiles,
	}, nil
}

// runPipeline executes one bootstrap run and flushes the tracer.
func runPipeline(ctx context.Context, bc bootstrap.Config) (*bootstrap.Report, error) {
	p, err := bootstrap.New(bc)
	if err != nil {
		return nil, err
	}
	report, runErr := p.Run(ctx)
	if bc.Tracer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := bc.Tracer.Shutdown(shutdownCtx); err != nil {
			log.Warn(log.CatTrace, "Tracer shutdown failed", "error", err.Error())
		}
	}
	return report, runErr
}

// resolveFormat returns the effective output format for a command: the
// --format flag when set, the config default otherwise.
func resolveFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cfg.Output.Format
	}
	if format == "" {
		format = "text"
	}
	switch format {
	case "text", "json":
		return format, nil
	default:
		return "", fmt.Errorf("format must be \"text\" or \"json\", got %q", format)
	}
}

func runRoot(cmd *cobra.Command, _ []string) error {
	format, err := resolveFormat(cmd)
	if err != nil {
		return err
	}
	bc, err := pipelineConfig()
	if err != nil {
		return err
	}
	bc.Excludes, _ = cmd.Flags().GetStringArray("exclude")
	bc.ConfigName = firstOrEmpty(flagNames)

	db, err := openHistory()
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	if db != nil {
		defer func() { _ = db.Close() }()
		bc.History = db.RunRepository()
	}

	report, err := runPipeline(cmd.Context(), bc)
	if err != nil {
		return err
	}
	if db != nil && cfg.History.Keep > 0 {
		if _, err := db.RunRepository().Prune(cfg.History.Keep); err != nil {
			log.Warn(log.CatStore, "History prune failed", "error", err.Error())
		}
	}

	formatter := presentation.NewFormatter(cmd.OutOrStdout())
	dto := presentation.FromReport(report)
	if format == "json" {
		return formatter.JSON(dto)
	}
	return formatter.Report(dto)
}

func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if logCleanup != nil {
			logCleanup()
		}
	}()
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
