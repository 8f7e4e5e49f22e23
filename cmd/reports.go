package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List completed interviews",
	Run: func(cmd *cobra.Command, _ []string) {
		zl := newLogger()

		config, err := getConfig()
		if err != nil {
			zl.Fatal("getting a config", zap.Error(err))
		}

		store, err := sessionStore(config)
		if err != nil {
			zl.Fatal("resolving session state path", zap.Error(err))
		}
		login := requireSession(zl, store)

		client := apiClient(zl, config, login.Token)
		interviews, err := client.ListInterviews(cmd.Context())
		if err != nil {
			zl.Fatal("listing interviews", zap.Error(err))
		}

		if len(interviews) == 0 {
			fmt.Println("No interviews yet")
			return
		}

		for _, iv := range interviews {
			line := fmt.Sprintf("%s  %s  %s  %s", iv.ID, iv.CandidateName, iv.TargetRole, iv.Status)
			if iv.Score > 0 {
				line += fmt.Sprintf("  score=%.1f", iv.Score)
			}
			if iv.Duration > 0 {
				line += fmt.Sprintf("  %ds", iv.Duration)
			}
			fmt.Println(line)
		}
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate interview performance",
	Run: func(cmd *cobra.Command, _ []string) {
		zl := newLogger()

		config, err := getConfig()
		if err != nil {
			zl.Fatal("getting a config", zap.Error(err))
		}

		store, err := sessionStore(config)
		if err != nil {
			zl.Fatal("resolving session state path", zap.Error(err))
		}
		login := requireSession(zl, store)

		client := apiClient(zl, config, login.Token)
		stats, err := client.GetPerformanceStats(cmd.Context())
		if err != nil {
			zl.Fatal("loading performance stats", zap.Error(err))
		}

		pretty, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			zl.Fatal("rendering stats", zap.Error(err))
		}

		fmt.Println(string(pretty))
	},
}

func init() {
	rootCmd.AddCommand(reportsCmd, statsCmd)
}
