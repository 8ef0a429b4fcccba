package main

import (
	"context"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/texcache"
	"github.com/unkn0wn-root/texcache/internal/tui"
)

var playLogFile string

var playCmd = &cobra.Command{
	Use:   "play <origin>",
	Short: "Play an origin in the terminal",
	Long: `Acquire the origin every frame and draw what the cache returns, two pixels
per cell. Press r to invalidate and reload, q to quit.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playLogFile, "log-file", "", "write logs here (the screen is taken by the player)")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var logw io.Writer = io.Discard
	if playLogFile != "" {
		f, err := os.OpenFile(playLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logw = f
	}
	tel, err := newTelemetry(cfg.Log, logw)
	if err != nil {
		return err
	}
	defer tel.close()

	opts, err := buildOptions(cfg, tel)
	if err != nil {
		return err
	}
	c, err := texcache.New(opts)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = c.Close(ctx)
	}()

	t := targets(args)[0]
	p := tea.NewProgram(tui.NewPlayer(c, t.key, t.origin), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	return err
}
