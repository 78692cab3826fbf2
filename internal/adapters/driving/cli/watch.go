package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragsync-cli/internal/chunker"
	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
	"github.com/custodia-labs/ragsync-cli/internal/logger"
)

// watchDebounce coalesces bursts of filesystem events into one sync pass.
const watchDebounce = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [session] [dir]",
	Short: "Watch a directory and keep a session in sync",
	Long: `Watches a directory for changes and reconciles the session after every
change: edited chunks replace their predecessors in place, new chunks are
appended, and chunks for removed content are deleted.

Runs until interrupted.`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	sessionID, dir := args[0], args[1]

	if synchronizer == nil || sessionService == nil {
		return errors.New("sync service not configured")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx := cmd.Context()
	cmd.Printf("Watching %s for session %s. Press Ctrl+C to stop.\n", dir, sessionID)

	// Initial pass so the session matches the directory before we start
	// reacting to events.
	if err := syncDir(ctx, cmd, sessionID, dir); err != nil {
		return err
	}

	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event) {
				continue
			}
			logger.Debug("Filesystem event: %s", event)
			if timer == nil {
				timer = time.AfterFunc(watchDebounce, func() {
					select {
					case pending <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		case <-pending:
			timer = nil
			if err := syncDir(ctx, cmd, sessionID, dir); err != nil {
				logger.Warn("Sync failed: %v", err)
			}
		}
	}
}

func relevantEvent(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	return chunker.Supported(event.Name)
}

func syncDir(ctx context.Context, cmd *cobra.Command, sessionID, dir string) error {
	incoming, err := splitter.SplitDir(dir)
	if err != nil {
		return err
	}

	stored, err := sessionService.Chunks(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}

	changes := chunker.Diff(stored, incoming)
	if len(changes) == 0 {
		return nil
	}

	report, err := synchronizer.Synchronize(ctx, sessionID, changes, false)
	if err != nil {
		return err
	}

	cmd.Printf("[%s] applied=%d deleted=%d skipped=%d\n",
		time.Now().Format("15:04:05"), report.Applied, report.Deleted, report.Skipped)
	for _, rej := range report.Rejected {
		cmd.Println(styleWarning.Render(fmt.Sprintf("rejected %s: %s", shortFingerprint(rej.Fingerprint), rej.Reason)))
	}
	return nil
}
