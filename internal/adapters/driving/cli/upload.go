package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
	"github.com/custodia-labs/ragsync-cli/internal/logger"
)

var uploadName string

var uploadCmd = &cobra.Command{
	Use:   "upload [session] [path]",
	Short: "Import a file or directory into a session",
	Long: `Chunks the given file or directory and appends every chunk to the
session as a bulk import. Existing chunks in the session are left alone;
use commit to reconcile incremental edits.`,
	Args: cobra.ExactArgs(2),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadName, "name", "", "human-readable session name (defaults to the session ID)")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	sessionID, path := args[0], args[1]

	if synchronizer == nil || sessionService == nil {
		return errors.New("sync service not configured")
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	var chunks []domain.Chunk
	if info.IsDir() {
		chunks, err = splitter.SplitDir(path)
	} else {
		chunks, err = splitter.SplitFile(path)
	}
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("no supported content found in %s", path)
	}

	logger.Info("Uploading %d chunks to session %s", len(chunks), sessionID)

	ctx := context.Background()
	report, err := synchronizer.Synchronize(ctx, sessionID, chunks, true)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	name := uploadName
	if name == "" {
		name = sessionID
	}
	meta := domain.SessionMeta{
		ID:          sessionID,
		Name:        name,
		ArchiveName: info.Name(),
		CreatedAt:   time.Now().UTC(),
	}
	if !info.IsDir() {
		meta.ArchiveSize = info.Size()
	}
	if err := sessionService.SaveMeta(ctx, meta); err != nil {
		return fmt.Errorf("save session metadata: %w", err)
	}

	cmd.Println(styleSuccess.Render(fmt.Sprintf("Imported %d chunks into session %s.", report.Applied, sessionID)))
	return nil
}
