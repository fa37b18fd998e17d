package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Zachkp/folio/internal/config"
)

var (
	cfgFile   string
	version   = "dev"
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Server-rendered developer portfolio",
	Long: `folio renders a developer portfolio from a headless content API.

It fetches the about, skills, projects, experience, blog and testimonial
collections, renders them as a single page and relays contact form
submissions back to the API.`,
	SilenceUsage: true,
}

// Execute runs the root command with the given build version.
func Execute(buildVersion string) {
	version = buildVersion
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./folio.yaml)")
}

// initializeConfig layers flags over environment over the config file over
// defaults and stores the result in appConfig.
func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("folio")
		v.SetConfigType("yaml")
	}

	if err := config.BindEnv(v); err != nil {
		return err
	}

	flags := map[string]string{
		"port":          "port",
		"api_base_url":  "api-base-url",
		"templates_dir": "templates-dir",
		"log_level":     "log-level",
	}
	for key, name := range flags {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	appConfig = cfg
	return nil
}
