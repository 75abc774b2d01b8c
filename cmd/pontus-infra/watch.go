package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/pontuslabs/pontus-infra/internal/lint"
)

// newWatchCmd creates the "watch" subcommand for rebuilding when the config file changes.
func newWatchCmd(opts *globalOptions) *cobra.Command {
	var wopts watchOptions

	cmd := &cobra.Command{
		Use:   "watch [stack]",
		Short: "Rebuild a stack when the config file changes",
		Long: `Watch monitors the config file and rebuilds the stack on every change.

The watch command:
- Runs lint on each change
- Rebuilds if lint reports no errors (unless --lint-only)
- Debounces rapid changes to avoid excessive rebuilds

Examples:
    pontus-infra watch
    pontus-infra watch app -o app.json
    pontus-infra watch --lint-only --debounce 1s`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.OutOrStdout(), opts, stackArg(args), wopts)
		},
	}

	cmd.Flags().BoolVar(&wopts.lintOnly, "lint-only", false, "Only run lint, skip build")
	cmd.Flags().DurationVar(&wopts.debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")
	cmd.Flags().StringVarP(&wopts.outputFormat, "format", "f", "json", "Output format for build: json or yaml")
	cmd.Flags().StringVarP(&wopts.outputFile, "output", "o", "", "Output file for build (default: stdout)")

	return cmd
}

type watchOptions struct {
	lintOnly     bool
	debounce     time.Duration
	outputFormat string
	outputFile   string
}

// runWatch monitors the config file and runs lint/build on changes.
func runWatch(w io.Writer, opts *globalOptions, stackName string, wopts watchOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	target, err := filepath.Abs(opts.configPath)
	if err != nil {
		return err
	}

	// Editors replace files on save, so watch the directory instead of the file.
	dir := filepath.Dir(target)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	fmt.Fprintf(w, "Watching: %s\n", target)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	fmt.Fprintln(w, "Running initial lint/build...")
	runLintAndBuild(w, opts, stackName, wopts)

	var debounceTimer *time.Timer
	rebuildChan := make(chan struct{}, 1)

	fmt.Fprintln(w, "\nWatching for changes... (Ctrl+C to stop)")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isConfigChange(event, target) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(wopts.debounce, func() {
				select {
				case rebuildChan <- struct{}{}:
				default:
				}
			})

		case <-rebuildChan:
			fmt.Fprintf(w, "\n[%s] Change detected, rebuilding...\n", time.Now().Format("15:04:05"))
			runLintAndBuild(w, opts, stackName, wopts)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)

		case <-sigChan:
			fmt.Fprintln(w, "\nStopping watch...")
			return nil
		}
	}
}

// isConfigChange reports whether event writes or recreates the config file at target.
func isConfigChange(event fsnotify.Event, target string) bool {
	if filepath.Clean(event.Name) != target {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// runLintAndBuild lints the stack and builds it unless lint reports errors.
func runLintAndBuild(w io.Writer, opts *globalOptions, stackName string, wopts watchOptions) {
	s, err := opts.synthesize(stackName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Build error: %v\n", err)
		return
	}

	sources, _ := s.builder.Resources()
	result := lint.LintTemplate(s.template, lint.Options{Sources: sources})
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "  %s: %s: %s [%s]\n", issue.Resource, issue.Severity, issue.Message, issue.Rule)
	}
	if result.HasErrors() {
		fmt.Fprintln(w, "Lint failed, skipping build")
		return
	}

	fmt.Fprintln(w, "Lint passed")

	if wopts.lintOnly {
		return
	}

	data, err := encodeTemplate(s.template, wopts.outputFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Build error: %v\n", err)
		return
	}

	if wopts.outputFile == "" {
		fmt.Fprintln(w, string(data))
		return
	}
	if err := os.WriteFile(wopts.outputFile, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Write error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Wrote %s\n", wopts.outputFile)
}
