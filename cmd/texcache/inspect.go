package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/unkn0wn-root/texcache"
	"github.com/unkn0wn-root/texcache/origin"
	"github.com/unkn0wn-root/texcache/source"
)

var (
	inspectTimeout time.Duration
	inspectJobs    int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <origin>...",
	Short: "Load origins and print what they decode to",
	Long: `Load every origin through a cache, wait for the worker to finish each one
and print frame count, size, loop flag and per-frame delays.

An origin is a file path, an http(s) URL or a data: URI.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().DurationVarP(&inspectTimeout, "timeout", "t", 30*time.Second, "give up waiting after this long")
	inspectCmd.Flags().IntVarP(&inspectJobs, "jobs", "j", 4, "origins acquired concurrently")
	rootCmd.AddCommand(inspectCmd)
}

// target is one command-line origin and the key it is cached under.
type target struct {
	key    string
	origin origin.Origin
}

// targets maps arguments to cache keys, dropping repeats.
func targets(args []string) []target {
	out := make([]target, 0, len(args))
	seen := make(map[string]bool, len(args))
	for i, a := range args {
		o := origin.Parse(a)
		key := a
		if o.Kind() == origin.KindBytes {
			// data URIs make poor keys, keep the position instead
			key = fmt.Sprintf("payload-%d", i)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, target{key: key, origin: o})
	}
	return out
}

// result is one row of inspect output.
type result struct {
	target
	info texcache.Info
	out  outcome
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tel, err := newTelemetry(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	defer tel.close()

	w := newWatch(tel.hooks)
	tel.hooks = w
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

	ctx, cancel := context.WithTimeout(cmd.Context(), inspectTimeout)
	defer cancel()

	ts := targets(args)
	results, err := inspect(ctx, c, w, ts, inspectJobs)
	if err != nil {
		return err
	}
	printResults(cmd.OutOrStdout(), results)

	failed := 0
	for _, r := range results {
		if r.out.err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d origins failed", failed, len(results))
	}
	return nil
}

// inspect acquires every target and waits for its terminal event. A failed
// fetch is reported in its row; only the deadline aborts the whole run.
func inspect(ctx context.Context, c texcache.Cache, w *watch, ts []target, jobs int) ([]result, error) {
	results := make([]result, len(ts))
	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, t := range ts {
		g.Go(func() error {
			done := w.expect(t.key)
			c.Acquire(t.key, t.origin)
			select {
			case out := <-done:
				info, _ := c.Stat(t.key)
				results[i] = result{target: t, info: info, out: out}
				return nil
			case <-ctx.Done():
				return fmt.Errorf("%s: %w", t.key, ctx.Err())
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

var (
	headStyle = lipgloss.NewStyle().Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E06C75"))
)

func printResults(out io.Writer, rs []result) {
	for _, r := range rs {
		fmt.Fprintln(out, headStyle.Render(r.key))
		if r.out.err != nil {
			fmt.Fprintf(out, "  %s\n", failStyle.Render(failure(r.out)))
			continue
		}
		in := r.info
		fmt.Fprintf(out, "  origin    %s\n", in.Origin)
		fmt.Fprintf(out, "  state     %s\n", in.State)
		fmt.Fprintf(out, "  size      %dx%d\n", in.Size.X, in.Size.Y)
		fmt.Fprintf(out, "  frames    %d\n", in.Frames)
		fmt.Fprintf(out, "  animated  %t\n", in.Animated)
		fmt.Fprintf(out, "  loop      %t\n", in.Loop)
		if in.Animated {
			fmt.Fprintf(out, "  delays    %s\n", delays(in.Delays))
		}
	}
}

func failure(o outcome) string {
	if code, ok := source.IsStatus(o.err); ok {
		return fmt.Sprintf("%s failed: HTTP %d", o.stage, code)
	}
	return fmt.Sprintf("%s failed: %v", o.stage, o.err)
}

func delays(ds []time.Duration) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = d.String()
	}
	return strings.Join(parts, " ")
}
