package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
	"github.com/custodia-labs/ragsync-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ragsync-cli/internal/logger"
)

var commitCmd = &cobra.Command{
	Use:   "commit [session] [changes.json]",
	Short: "Reconcile a chunk change set against a session",
	Long: `Reads a JSON array of chunk updates and reconciles it against the
session's stored snapshot. Each entry carries a status: "unchanged"
chunks are skipped, "modified" chunks replace their predecessor in
place, "new" chunks are appended, and "deleted" chunks are removed.

Pass - to read the change set from stdin.`,
	Args: cobra.ExactArgs(2),
	RunE: runCommit,
}

func init() {
	rootCmd.AddCommand(commitCmd)
}

func runCommit(cmd *cobra.Command, args []string) error {
	sessionID, path := args[0], args[1]

	if synchronizer == nil {
		return errors.New("sync service not configured")
	}

	chunks, err := readChangeSet(cmd, path)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		cmd.Println("Nothing to commit.")
		return nil
	}

	logger.Info("Committing %d chunk updates to session %s", len(chunks), sessionID)

	report, err := synchronizer.Synchronize(context.Background(), sessionID, chunks, false)
	if err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}

	printReport(cmd, report)
	return nil
}

func readChangeSet(cmd *cobra.Command, path string) ([]domain.Chunk, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open change set: %w", err)
		}
		defer f.Close()
		r = f
	}

	var chunks []domain.Chunk
	if err := json.NewDecoder(r).Decode(&chunks); err != nil {
		return nil, fmt.Errorf("decode change set: %w", err)
	}
	return chunks, nil
}

func printReport(cmd *cobra.Command, report *driving.SyncReport) {
	cmd.Printf("Applied: %d  Deleted: %d  Skipped: %d\n", report.Applied, report.Deleted, report.Skipped)
	if report.Drifted > 0 {
		cmd.Println(styleWarning.Render(fmt.Sprintf("Drifted:  %d chunk(s) rewritten with corrected metadata", report.Drifted)))
	}
	for _, rej := range report.Rejected {
		cmd.Println(styleWarning.Render(fmt.Sprintf("Rejected: %s (%s): %s", rej.Fingerprint, rej.Status, rej.Reason)))
	}
	if len(report.Rejected) == 0 {
		cmd.Println(styleSuccess.Render("Commit complete."))
	}
}
