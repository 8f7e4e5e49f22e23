package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/voxhire/voxhire/internal/ai"
	"github.com/voxhire/voxhire/internal/ai/gemini"
	"github.com/voxhire/voxhire/internal/logger"
	"github.com/voxhire/voxhire/internal/recruitai"
	"github.com/voxhire/voxhire/internal/scoring"
	"github.com/voxhire/voxhire/internal/secrets"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume against a target role",
	Long: "Scores a resume two ways: an ATS screening estimate and an overall " +
		"quality blend. Takes either a PDF (parsed by the platform) or an " +
		"already-parsed JSON file.",
	Run: func(cmd *cobra.Command, _ []string) {
		runAnalyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("resume", "", "resume PDF to upload for parsing")
	analyzeCmd.Flags().String("json", "", "already-parsed resume JSON file")
	analyzeCmd.Flags().String("role", "", "target role key, e.g. software-engineer")
	analyzeCmd.Flags().Bool("ai-suggestions", false, "ask the configured AI advisor for improvement suggestions")
}

type analysisOutput struct {
	Role     string                 `json:"role"`
	ATS      *scoring.ATSReport     `json:"ats"`
	Overall  int                    `json:"overallScore"`
	Sections *scoring.SectionScores `json:"sectionScores"`
	AI       []ai.Suggestion        `json:"aiSuggestions,omitempty"`
}

func runAnalyze(cmd *cobra.Command) {
	zl := newLogger()

	config, err := getConfig()
	if err != nil {
		zl.Fatal("getting a config", zap.Error(err))
	}

	role, _ := cmd.Flags().GetString("role")
	if strings.TrimSpace(role) == "" {
		zl.Fatal("a target role is required",
			zap.Strings("known_roles", scoring.RoleKeys()),
			zap.String("hint", "pass --role"),
		)
	}

	resume, err := loadResume(cmd, zl, config)
	if err != nil {
		zl.Fatal("loading resume", zap.Error(err))
	}

	atsReport, err := scoring.ATSScore(resume, role)
	if err != nil {
		zl.Fatal("scoring resume", zap.Error(err))
	}

	sections, err := scoring.Sections(resume, role)
	if err != nil {
		zl.Fatal("scoring sections", zap.Error(err))
	}

	overall, err := scoring.OverallScore(resume, role)
	if err != nil {
		zl.Fatal("computing overall score", zap.Error(err))
	}

	output := &analysisOutput{
		Role:     role,
		ATS:      atsReport,
		Overall:  overall,
		Sections: sections,
	}

	if wantAI, _ := cmd.Flags().GetBool("ai-suggestions"); wantAI {
		suggestions, err := adviseOnResume(cmd, zl, config, resume, atsReport, role)
		if err != nil {
			zl.Warn("ai suggestions unavailable", zap.Error(err))
		} else {
			output.AI = suggestions
		}
	}

	pretty, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		zl.Fatal("rendering analysis", zap.Error(err))
	}

	fmt.Println(string(pretty))
}

func loadResume(cmd *cobra.Command, zl *zap.Logger, config *Config) (*recruitai.ParsedResume, error) {
	jsonPath, _ := cmd.Flags().GetString("json")
	pdfPath, _ := cmd.Flags().GetString("resume")

	switch {
	case jsonPath != "":
		data, err := os.ReadFile(jsonPath)
		if err != nil {
			return nil, err
		}

		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", jsonPath, err)
		}

		return recruitai.DecodeResume(raw)
	case pdfPath != "":
		pdf, err := os.ReadFile(pdfPath)
		if err != nil {
			return nil, err
		}

		store, err := sessionStore(config)
		if err != nil {
			return nil, err
		}
		login := requireSession(zl, store)

		client := apiClient(zl, config, login.Token)

		return client.ParseResume(cmd.Context(), pdfPath, pdf)
	default:
		return nil, fmt.Errorf("either --resume or --json is required")
	}
}

func adviseOnResume(cmd *cobra.Command, zl *zap.Logger, config *Config, resume *recruitai.ParsedResume, report *scoring.ATSReport, role string) ([]ai.Suggestion, error) {
	if config.AI == nil || !config.AI.Enabled {
		return nil, fmt.Errorf("ai advisor is not enabled in the config")
	}
	if config.AI.Provider != "" && config.AI.Provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider %q", config.AI.Provider)
	}

	geminiCfg := config.AI.Gemini
	if geminiCfg == nil {
		geminiCfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: geminiCfg.APIKey,
		File:  geminiCfg.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	generator, err := gemini.NewGenerator(cmd.Context(), apiKey, geminiCfg.Model)
	if err != nil {
		return nil, err
	}

	advisorLogger := logger.WithFields(zl, logger.CommonFields("gemini", generator.Model())...)
	advisor := gemini.NewAdvisor(generator, advisorLogger, geminiCfg.MaxLogLength)

	return advisor.Suggest(cmd.Context(), resume, report, role)
}
