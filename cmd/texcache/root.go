package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/texcache/config"
)

var (
	cfgPath  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "texcache",
	Short: "Load, decode and play images through a texture cache",
	Long: `texcache resolves image origins (files, paths, data URIs, URLs), decodes
them on a background worker and serves the frame to show right now.

Use "inspect" to see what an origin decodes to and "play" to watch it animate
in the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
}

func execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

// loadConfig applies flag overrides on top of the config file.
func loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if cfgPath == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFrom(cfgPath)
	}
	if err != nil {
		return cfg, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}
