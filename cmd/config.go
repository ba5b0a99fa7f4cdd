package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/specmint/specmint/internal/config"
	"github.com/specmint/specmint/internal/llm"
	"github.com/specmint/specmint/types"
)

const (
	configName = ".specmint"
	envPrefix  = "SPECMINT"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single validator instance; it caches struct info.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// validateAppConfig performs validation on the AppConfig struct. Out-of-range
// budgets and limits are hard failures, not clamped.
func validateAppConfig(cfg *types.AppConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return err
	}
	return nil
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// Load .env first if present. Missing .env is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix) // e.g. SPECMINT_VERBOSE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfgFileFlag := viper.GetString("config")
	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(configName)
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFileFlag != "" {
				fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
				os.Exit(1)
			}
			// No config file found by search paths. Defaults and env apply.
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
			os.Exit(1)
		}
	}

	setDefaults()

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling config: %s\n", err)
		os.Exit(1)
	}

	if _, err := llm.ValidateProvider(GlobalAppConfig.LLM.Provider); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %s\n", err)
		os.Exit(1)
	}
	if GlobalAppConfig.LLM.ModelName == "" {
		GlobalAppConfig.LLM.ModelName = config.DefaultModelForProvider(GlobalAppConfig.LLM.Provider)
	}

	if err := validateAppConfig(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %s\n", err)
		os.Exit(1)
	}

	setupLogging(GlobalAppConfig.Verbose)
}

func setDefaults() {
	viper.SetDefault("chunking.targetTokensPerChunk", config.DefaultTargetTokensPerChunk)
	viper.SetDefault("chunking.maxTokensPerChunk", config.DefaultMaxTokensPerChunk)
	viper.SetDefault("chunking.minEndpointsPerChunk", config.DefaultMinEndpointsPerChunk)
	viper.SetDefault("chunking.maxEndpointsPerChunk", config.DefaultMaxEndpointsPerChunk)
	viper.SetDefault("chunking.semanticGrouping", true)

	viper.SetDefault("rateLimit.tpmLimit", config.DefaultTPMLimit)
	viper.SetDefault("rateLimit.rpmLimit", config.DefaultRPMLimit)
	viper.SetDefault("rateLimit.tpmSafetyMargin", config.DefaultTPMSafetyMargin)
	viper.SetDefault("rateLimit.rpmSafetyMargin", config.DefaultRPMSafetyMargin)
	viper.SetDefault("rateLimit.adaptiveBackoff", true)

	viper.SetDefault("scheduler.workerCount", config.DefaultWorkerCount)
	viper.SetDefault("scheduler.perTaskTimeoutSeconds", int(config.DefaultPerTaskTimeout/time.Second))
	viper.SetDefault("scheduler.globalTimeoutSeconds", int(config.DefaultGlobalTimeout/time.Second))
	viper.SetDefault("scheduler.maxRetries", config.DefaultMaxRetries)
	viper.SetDefault("scheduler.gracefulDegradation", true)

	viper.SetDefault("llm.provider", config.DefaultProvider)
	viper.SetDefault("llm.modelName", "")
	viper.SetDefault("llm.apiKey", "")
	viper.SetDefault("llm.maxTokens", config.DefaultMaxOutputTokens)
	viper.SetDefault("llm.temperature", config.DefaultTemperature)
	viper.SetDefault("llm.compression", config.DefaultCompression)

	viper.SetDefault("output.dir", config.DefaultOutputDir)
	viper.SetDefault("output.file", config.DefaultOutputFile)
}

// GetConfig returns the loaded application configuration.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}

// setupLogging routes slog through stderr at a verbosity-dependent level so
// stdout stays clean for command output.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
