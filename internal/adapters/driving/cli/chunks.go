package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
)

var chunksJSON bool

var chunksCmd = &cobra.Command{
	Use:   "chunks [session]",
	Short: "List every stored chunk in a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runChunks,
}

func init() {
	chunksCmd.Flags().BoolVar(&chunksJSON, "json", false, "output chunks as JSON")
	rootCmd.AddCommand(chunksCmd)
}

func runChunks(cmd *cobra.Command, args []string) error {
	sessionID := args[0]

	if sessionService == nil {
		return errors.New("session service not configured")
	}

	records, err := sessionService.Chunks(context.Background(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("session %s not found", sessionID)
		}
		return fmt.Errorf("list chunks failed: %w", err)
	}

	if chunksJSON {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal chunks: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(styleTitle.Render(fmt.Sprintf("Session %s: %d chunk(s)", sessionID, len(records))))
	for _, rec := range records {
		cmd.Printf("  %s  %s#%d  %s\n", rec.ID, rec.Filename, rec.Ordinal,
			styleMuted.Render(shortFingerprint(rec.Fingerprint)))
	}
	return nil
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
