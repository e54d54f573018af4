package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/centauri/internal/model"
	"github.com/ppiankov/centauri/internal/pipeline"
)

// Version is the release version, set at build time via ldflags
var Version = "0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "centauri",
	Short: "Centauri - sentence-level SEO and AI indexing scores",
	Long: `Centauri scores an article for search and AI indexing quality.

Every sentence is tagged by two independent classifiers. Disagreements go
to an escalation classifier, precedence rules settle the rest, and the
reconciled tags roll up into Level 2 component scores, Level 3 composites
and the final Centauri SEO and AI indexing scores.

Without configured model providers Centauri runs fully offline on its
deterministic detectors.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number for Centauri.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "centauri v%s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.centauri/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.centauri")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match CENTAURI_*
	viper.SetEnvPrefix("CENTAURI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges the config file and CENTAURI_* variables over the defaults,
// then fills provider API keys from the usual environment variables
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyEnvKeys(cfg)
	return cfg, nil
}

// applyEnvKeys sets each enabled role's API key or base URL from the provider's
// environment variable when the config leaves it empty
func applyEnvKeys(cfg *model.Config) {
	roles := []*model.LLMConfig{
		&cfg.Classifiers.Primary,
		&cfg.Classifiers.Secondary,
		&cfg.Classifiers.Escalation,
		&cfg.Classifiers.Signals,
		&cfg.Classifiers.Research,
	}
	for _, role := range roles {
		switch strings.ToLower(role.Provider) {
		case "openai":
			role.APIKey = firstNonEmpty(role.APIKey, os.Getenv("OPENAI_API_KEY"))
		case "groq":
			role.APIKey = firstNonEmpty(role.APIKey, os.Getenv("GROQ_API_KEY"))
		case "anthropic", "claude":
			role.APIKey = firstNonEmpty(role.APIKey, os.Getenv("ANTHROPIC_API_KEY"))
		case "gemini", "google":
			role.APIKey = firstNonEmpty(role.APIKey, os.Getenv("GEMINI_API_KEY"))
		case "ollama":
			// Ollama doesn't need an API key
			role.BaseURL = firstNonEmpty(role.BaseURL, os.Getenv("OLLAMA_BASE_URL"))
		}
	}
}

// parseRole reads a "provider[:model]" flag value. An empty value or "none" disables the role.
func parseRole(value string, base model.LLMConfig) model.LLMConfig {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "none") {
		base.Provider, base.Model = "", ""
		return base
	}
	provider, modelName, _ := strings.Cut(value, ":")
	base.Provider = strings.ToLower(strings.TrimSpace(provider))
	base.Model = strings.TrimSpace(modelName)
	return base
}

// newPipeline builds the pipeline with warnings routed to stderr
func newPipeline(ctx context.Context, cfg *model.Config, opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	p, err := pipeline.NewPipeline(ctx, cfg, os.Stderr, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}
	return p, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
