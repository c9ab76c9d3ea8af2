package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aclev/cljstyle/pkg/styler"
)

const (
	EnvPrefix         = "CLJSTYLE"
	DefaultConfigName = "cljstyle"
)

// LoadAndValidate loads configuration from all sources (defaults, config file,
// profile, environment, flags), validates the merged result, derives values
// such as the root ignore patterns, and sets up the logger. Returns the
// populated Options or an error.
func LoadAndValidate(cfgFile, profileName, appVersion string, verbose bool, roots []string, flags *pflag.FlagSet) (styler.Options, *slog.Logger, error) {
	var opts styler.Options
	v := viper.New()

	// Temporary basic logger for early loading errors.
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			tempLogger.Error("Failed to get user home directory", slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("failed to get user home directory: %w", err)
		}
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(home, ".config", DefaultConfigName))
		v.AddConfigPath(filepath.Join(home, "."+DefaultConfigName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			tempLogger.Debug("No configuration file found, using defaults/env/flags.")
		} else {
			used := cfgFile
			if used == "" {
				used = fmt.Sprintf("searched locations for %s.yaml", DefaultConfigName)
			}
			tempLogger.Error("Error reading configuration file", slog.String("path", used), slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("error reading config file '%s': %w", used, err)
		}
	} else {
		opts.ConfigFilePath = v.ConfigFileUsed()
		tempLogger.Debug("Using configuration file", slog.String("path", opts.ConfigFilePath))
	}

	// Apply profile settings on top of the base configuration.
	opts.ProfileName = profileName
	if profileName != "" {
		profileKey := "profiles." + profileName
		if !v.IsSet(profileKey) {
			configPath := v.ConfigFileUsed()
			if configPath == "" {
				configPath = "(no config file found)"
			}
			err := fmt.Errorf("profile '%s' not found in config file '%s'", profileName, configPath)
			tempLogger.Error(err.Error())
			return opts, tempLogger, err
		}
		profileSettings := v.Sub(profileKey)
		if profileSettings == nil {
			err := fmt.Errorf("failed to load profile '%s' settings from config file '%s'", profileName, v.ConfigFileUsed())
			tempLogger.Error(err.Error())
			return opts, tempLogger, err
		}
		if err := v.MergeConfigMap(profileSettings.AllSettings()); err != nil {
			tempLogger.Error("Error merging profile", slog.String("profile", profileName), slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("error merging profile '%s': %w", profileName, err)
		}
		tempLogger.Debug("Applied configuration profile", slog.String("profile", profileName))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Bind flags last so explicit flags win over file, profile, and env.
	flagKeys := []string{
		"verbose", "no-tui", "concurrency", "output-format", "report-file",
		"hard-timeout", "settle-timeout", "fix", "ignore", "languages",
		"max-line-length", "indent", "git-diff-only", "git-since",
	}
	for _, key := range flagKeys {
		if flag := flags.Lookup(key); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				tempLogger.Error("Error binding flag", slog.String("flag", key), slog.Any("error", err))
				return opts, tempLogger, fmt.Errorf("error binding flag '--%s': %w", key, err)
			}
		} else {
			tempLogger.Debug("Flag lookup failed during binding", slog.String("flag", key))
		}
	}

	v.RegisterAlias("outputFormat", "output-format")
	v.RegisterAlias("reportFile", "report-file")
	v.RegisterAlias("hardTimeout", "hard-timeout")
	v.RegisterAlias("settleTimeout", "settle-timeout")
	v.RegisterAlias("rules.ignore", "ignore")
	v.RegisterAlias("rules.languages", "languages")
	v.RegisterAlias("rules.maxLineLength", "max-line-length")
	v.RegisterAlias("rules.indent", "indent")

	opts.AppVersion = appVersion
	if err := v.Unmarshal(&opts); err != nil {
		tempLogger.Error("Error unmarshalling configuration", slog.Any("error", err))
		return opts, tempLogger, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Boolean flags need explicit application: an unset bool flag is
	// indistinguishable from an explicit false after unmarshalling.
	if flags.Changed("verbose") {
		opts.Verbose, _ = flags.GetBool("verbose")
	}
	if verbose {
		opts.Verbose = true
	}
	if flags.Changed("fix") {
		opts.Rules.Fix, _ = flags.GetBool("fix")
	}
	if flags.Changed("no-tui") {
		noTui, _ := flags.GetBool("no-tui")
		opts.TuiEnabled = !noTui
	}
	if flags.Changed("git-diff-only") {
		if diffOnly, _ := flags.GetBool("git-diff-only"); diffOnly {
			opts.GitDiffMode = styler.GitDiffModeDiffOnly
		}
	}
	if flags.Changed("git-since") {
		if ref, _ := flags.GetString("git-since"); ref != "" {
			opts.GitDiffMode = styler.GitDiffModeSince
			opts.GitSinceRef = ref
		}
	}

	if len(roots) > 0 {
		opts.Roots = roots
	}

	if err := validateAndDerive(&opts, tempLogger); err != nil {
		return opts, tempLogger, err
	}

	logger := buildLogger(opts.Verbose)
	opts.Logger = logger.Handler()
	return opts, logger, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)
	v.SetDefault("tuiEnabled", true)
	v.SetDefault("concurrency", styler.DefaultConcurrency)
	v.SetDefault("outputFormat", string(styler.DefaultOutputFormat))
	v.SetDefault("reportFile", "")
	v.SetDefault("hardTimeout", styler.DefaultHardTimeout)
	v.SetDefault("settleTimeout", styler.DefaultSettleTimeout)
	v.SetDefault("rules.ignore", styler.DefaultIgnorePatterns)
	v.SetDefault("rules.languages", styler.DefaultLanguages)
	v.SetDefault("rules.maxLineLength", styler.DefaultMaxLineLength)
	v.SetDefault("rules.indent", string(styler.DefaultIndentPolicy))
	v.SetDefault("rules.finalNewline", true)
	v.SetDefault("rules.trailingWhitespace", true)
}

// validateAndDerive rejects invalid settings and fills in values derived from
// the validated configuration.
func validateAndDerive(opts *styler.Options, logger *slog.Logger) error {
	if opts.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency cannot be negative", styler.ErrConfigValidation)
	}
	switch opts.OutputFormat {
	case styler.OutputFormatText, styler.OutputFormatJSON:
	default:
		return fmt.Errorf("%w: invalid output format %q (must be \"text\" or \"json\")",
			styler.ErrConfigValidation, opts.OutputFormat)
	}
	switch opts.Rules.Indent {
	case styler.IndentAny, styler.IndentSpaces, styler.IndentTabs:
	default:
		return fmt.Errorf("%w: invalid indent policy %q (must be \"any\", \"spaces\" or \"tabs\")",
			styler.ErrConfigValidation, opts.Rules.Indent)
	}
	if opts.HardTimeout <= 0 {
		opts.HardTimeout = styler.DefaultHardTimeout
	}
	if opts.SettleTimeout <= 0 {
		opts.SettleTimeout = styler.DefaultSettleTimeout
	}
	for i, lang := range opts.Rules.Languages {
		opts.Rules.Languages[i] = strings.ToLower(strings.TrimSpace(lang))
	}

	if len(opts.Roots) == 0 {
		opts.Roots = []string{"."}
	}

	// Aggregate ignore patterns from the nearest ignore file above the first root.
	ignorePath, err := styler.FindIgnoreFile(opts.Roots[0])
	if err != nil {
		logger.Warn("Error searching for ignore file", slog.Any("error", err))
	} else if ignorePath != "" {
		patterns, err := styler.LoadIgnoreFile(ignorePath)
		if err != nil {
			return fmt.Errorf("loading ignore file: %w", err)
		}
		logger.Debug("Loaded ignore patterns from file",
			slog.String("path", ignorePath), slog.Int("count", len(patterns)))
		opts.Rules.IgnorePatterns = append(opts.Rules.IgnorePatterns, patterns...)
	}
	return nil
}

func buildLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
