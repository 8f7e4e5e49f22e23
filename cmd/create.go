package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/voxhire/voxhire/internal/recruitai"
	"github.com/voxhire/voxhire/internal/scoring"
)

var interviewCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Set up a new interview session from a candidate resume",
	Long: "Uploads the candidate's resume, extracts their profile and registers " +
		"an interview session. Prints the session id to hand to the candidate.",
	Run: func(cmd *cobra.Command, _ []string) {
		runCreate(cmd)
	},
}

func init() {
	interviewCmd.AddCommand(interviewCreateCmd)

	interviewCreateCmd.Flags().String("resume", "", "candidate resume PDF (required)")
	interviewCreateCmd.Flags().String("role", "software-engineer", "target role key, e.g. software-engineer")
	interviewCreateCmd.Flags().String("experience", "mid-level", "experience level (entry-level, mid-level, senior-level, lead-level)")
	interviewCreateCmd.Flags().String("company", "", "hiring company")
	interviewCreateCmd.Flags().String("type", "technical", "interview type (technical, behavioral, system-design, comprehensive)")
	interviewCreateCmd.Flags().Int("duration", 30, "planned duration in minutes")
	interviewCreateCmd.Flags().String("candidate", "", "candidate name (defaults to the parsed resume name)")
	interviewCreateCmd.Flags().String("email", "", "candidate email (defaults to the parsed resume email)")
	_ = interviewCreateCmd.MarkFlagRequired("resume")
}

func runCreate(cmd *cobra.Command) {
	zl := newLogger()

	config, err := getConfig()
	if err != nil {
		zl.Fatal("getting a config", zap.Error(err))
	}

	role, _ := cmd.Flags().GetString("role")
	if _, err := scoring.Role(role); err != nil {
		zl.Fatal("checking target role", zap.Error(err))
	}

	pdfPath, _ := cmd.Flags().GetString("resume")
	pdf, err := os.ReadFile(pdfPath)
	if err != nil {
		zl.Fatal("reading resume file", zap.Error(err))
	}

	store, err := sessionStore(config)
	if err != nil {
		zl.Fatal("resolving session state path", zap.Error(err))
	}
	login := requireSession(zl, store)

	client := apiClient(zl, config, login.Token)

	resume, err := client.ParseResume(cmd.Context(), pdfPath, pdf)
	if err != nil {
		zl.Fatal("parsing resume", zap.Error(err))
	}

	zl.Info("resume parsed",
		zap.String("candidate", resume.Name),
		zap.Int("skills", len(resume.Skills)),
	)

	candidate, _ := cmd.Flags().GetString("candidate")
	if candidate == "" {
		candidate = resume.Name
	}
	if candidate == "" {
		candidate, err = promptText("Candidate name", false)
		if err != nil {
			zl.Fatal("reading candidate name", zap.Error(err))
		}
	}

	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		email = resume.Email
	}

	experience, _ := cmd.Flags().GetString("experience")
	company, _ := cmd.Flags().GetString("company")
	interviewType, _ := cmd.Flags().GetString("type")
	duration, _ := cmd.Flags().GetInt("duration")

	id, err := client.CreateInterview(cmd.Context(), &recruitai.CreateInterviewRequest{
		CandidateName:   candidate,
		CandidateEmail:  email,
		TargetRole:      role,
		ExperienceLevel: experience,
		Company:         company,
		InterviewType:   interviewType,
		Duration:        duration,
		Skills:          resume.Skills,
		Projects:        resume.Projects,
		ExtractedData:   resume,
	})
	if err != nil {
		zl.Fatal("creating interview", zap.Error(err))
	}

	fmt.Printf("Interview created for %s (%s)\n", candidate, role)
	fmt.Printf("Session id: %s\n", id)
	fmt.Println("The candidate runs 'voxhire interview " + id + "' to start")
}
