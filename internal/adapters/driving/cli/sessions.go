package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage sessions",
	RunE:  runSessionsList,
}

var sessionsRmCmd = &cobra.Command{
	Use:   "rm [session]",
	Short: "Remove a session and all its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsRm,
}

func init() {
	sessionsCmd.AddCommand(sessionsRmCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	sessions, err := sessionService.List(context.Background())
	if err != nil {
		return fmt.Errorf("list sessions failed: %w", err)
	}

	if len(sessions) == 0 {
		cmd.Println("No sessions.")
		return nil
	}

	cmd.Println(styleTitle.Render("Sessions:"))
	for _, s := range sessions {
		line := fmt.Sprintf("  %s  %s", s.ID, s.Name)
		if s.ArchiveName != "" {
			line += styleMuted.Render(fmt.Sprintf("  (%s)", s.ArchiveName))
		}
		cmd.Println(line)
	}
	return nil
}

func runSessionsRm(cmd *cobra.Command, args []string) error {
	sessionID := args[0]

	if sessionService == nil {
		return errors.New("session service not configured")
	}

	if err := sessionService.Drop(context.Background(), sessionID); err != nil {
		return fmt.Errorf("remove session failed: %w", err)
	}

	cmd.Println(styleSuccess.Render(fmt.Sprintf("Session %s removed.", sessionID)))
	return nil
}
