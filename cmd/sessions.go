package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/voxhire/voxhire/internal/archive"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List locally archived interview sessions",
	Run: func(cmd *cobra.Command, _ []string) {
		zl := newLogger()

		config, err := getConfig()
		if err != nil {
			zl.Fatal("getting a config", zap.Error(err))
		}

		store, err := openArchive(config)
		if err != nil {
			zl.Fatal("opening local archive", zap.Error(err))
		}
		defer store.Close()

		entries, err := store.List(cmd.Context())
		if err != nil {
			zl.Fatal("listing archived sessions", zap.Error(err))
		}

		if len(entries) == 0 {
			fmt.Println("No archived sessions")
			return
		}

		for _, entry := range entries {
			status := "pending"
			if entry.Submitted {
				status = "submitted"
			}
			fmt.Printf("%s  interview=%s  %s  %s\n",
				entry.ID, entry.InterviewID, entry.CreatedAt.Format(time.RFC3339), status)
		}
	},
}

var resubmitCmd = &cobra.Command{
	Use:   "resubmit <archive-id>",
	Short: "Retry submitting an archived session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		zl := newLogger()

		config, err := getConfig()
		if err != nil {
			zl.Fatal("getting a config", zap.Error(err))
		}

		sessions, err := sessionStore(config)
		if err != nil {
			zl.Fatal("resolving session state path", zap.Error(err))
		}
		login := requireSession(zl, sessions)

		store, err := openArchive(config)
		if err != nil {
			zl.Fatal("opening local archive", zap.Error(err))
		}
		defer store.Close()

		payload, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			zl.Fatal("loading archived session", zap.Error(err))
		}

		client := apiClient(zl, config, login.Token)
		if _, err := client.Submit(cmd.Context(), payload); err != nil {
			zl.Fatal("resubmitting session",
				zap.Error(err),
				zap.String("hint", "the archived copy is kept, try again later"),
			)
		}

		if err := store.MarkSubmitted(cmd.Context(), args[0]); err != nil {
			zl.Warn("marking session submitted", zap.Error(err))
		}

		fmt.Printf("Session %s submitted for interview %s\n", args[0], payload.InterviewID)
	},
}

func openArchive(config *Config) (*archive.Store, error) {
	path := config.ArchiveDB
	if path == "" {
		var err error
		path, err = archive.DefaultPath(app)
		if err != nil {
			return nil, err
		}
	}

	return archive.Open(path)
}

func init() {
	sessionsCmd.AddCommand(resubmitCmd)
	rootCmd.AddCommand(sessionsCmd)
}
