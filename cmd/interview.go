package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/voxhire/voxhire/internal/recruitai"
	"github.com/voxhire/voxhire/internal/session"
	"github.com/voxhire/voxhire/internal/speech"
)

const (
	ActionRecordAnswer = "Record answer"
	ActionTypeAnswer   = "Type answer"
	ActionRepeat       = "Repeat the question"
	ActionEnd          = "End interview"
)

var interviewCmd = &cobra.Command{
	Use:   "interview <id>",
	Short: "Run one interview session end to end",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runInterview(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)

	interviewCmd.Flags().Bool("muted", false, "do not voice questions")
	interviewCmd.Flags().Bool("typed", false, "type answers instead of recording audio")
}

func runInterview(cmd *cobra.Command, interviewID string) {
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

	// Ctrl-C ends the session instead of dropping the transcript.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	client := apiClient(zl, config, login.Token)

	meta, err := client.GetInterview(ctx, interviewID)
	if err != nil {
		zl.Fatal("loading interview", zap.Error(err))
	}

	zl.Info("interview loaded",
		zap.String("interview_id", meta.ID),
		zap.String("candidate", meta.CandidateName),
		zap.String("role", meta.TargetRole),
	)

	interviewCfg := config.Interview
	if interviewCfg == nil {
		interviewCfg = &InterviewConfig{}
	}

	muted, _ := cmd.Flags().GetBool("muted")
	typedOnly, _ := cmd.Flags().GetBool("typed")

	speaker := speech.NewSpeaker(client, speech.NewCommandPlayer(interviewCfg.PlayerCommand, zl), zl)
	if muted || interviewCfg.Muted || len(interviewCfg.PlayerCommand) == 0 {
		speaker.SetMuted(true)
	}

	recorder := speech.NewRecorder(
		interviewCfg.RecorderCommand,
		time.Duration(interviewCfg.MaxRecordingSeconds)*time.Second,
		zl,
	)

	archiveStore, err := openArchive(config)
	if err != nil {
		zl.Warn("local archive unavailable, a failed submission will be lost", zap.Error(err))
	} else {
		defer archiveStore.Close()
	}

	deps := session.Deps{
		Platform:        client,
		Speaker:         speaker,
		Logger:          zl,
		QuestionTimeout: time.Duration(interviewCfg.QuestionTimeoutSeconds) * time.Second,
	}
	if archiveStore != nil {
		deps.Archive = archiveStore
	}

	ctrl, err := session.New(meta, deps)
	if err != nil {
		zl.Fatal("preparing session", zap.Error(err))
	}

	question, err := ctrl.Start(ctx)
	if err != nil {
		zl.Fatal("starting session", zap.Error(err))
	}

	fmt.Printf("\nInterviewer: %s\n\n", question)

	recordingAvailable := !typedOnly && len(interviewCfg.RecorderCommand) > 0

	for {
		if ctx.Err() != nil {
			// Archive whatever we have even though the run context is gone.
			finish(context.Background(), zl, ctrl)
			return
		}

		answer, ended, err := collectAnswer(ctx, zl, client, recorder, &recordingAvailable)
		if err != nil {
			zl.Fatal("collecting answer", zap.Error(err))
		}
		if ended {
			finish(ctx, zl, ctrl)
			return
		}
		if answer == "" {
			if err := speakAgain(ctx, speaker, question); err != nil {
				zl.Warn("repeating question", zap.Error(err))
			}
			fmt.Printf("\nInterviewer: %s\n\n", question)
			continue
		}

		turn, err := ctrl.SubmitAnswer(ctx, answer)
		if err != nil {
			zl.Fatal("submitting answer", zap.Error(err))
		}

		if turn.Completed {
			report(zl, turn.Result)
			return
		}

		question = turn.Question
		fmt.Printf("\nInterviewer: %s\n\n", question)
	}
}

// collectAnswer runs the per-question action menu. An empty answer with a nil
// error means the candidate asked for the question again.
func collectAnswer(ctx context.Context, zl *zap.Logger, client *recruitai.Client, recorder *speech.Recorder, recordingAvailable *bool) (string, bool, error) {
	items := []string{ActionTypeAnswer, ActionRepeat, ActionEnd}
	if *recordingAvailable {
		items = append([]string{ActionRecordAnswer}, items...)
	}

	action := promptui.Select{Label: "Your move", Items: items}
	_, choice, err := action.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) {
			return "", true, nil
		}
		return "", false, err
	}

	switch choice {
	case ActionRecordAnswer:
		answer, err := recordAnswer(ctx, zl, client, recorder)
		if err != nil {
			// Capture problems disable recording for the rest of the
			// session; the candidate keeps going by typing.
			zl.Warn("audio capture failed, switching to typed answers", zap.Error(err))
			*recordingAvailable = false
			return typeAnswer()
		}
		fmt.Printf("You said: %s\n", answer)
		return answer, false, nil
	case ActionTypeAnswer:
		return typeAnswer()
	case ActionRepeat:
		return "", false, nil
	default:
		return "", true, nil
	}
}

func recordAnswer(ctx context.Context, zl *zap.Logger, client *recruitai.Client, recorder *speech.Recorder) (string, error) {
	fmt.Println("Recording... press Enter to stop")

	stopCh := make(chan struct{})
	go func() {
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
		close(stopCh)
	}()

	audio, err := recorder.Record(ctx, stopCh)
	if err != nil {
		return "", err
	}

	zl.Debug("recording captured", zap.Int("bytes", len(audio)))

	transcript, err := client.SpeechToText(ctx, "answer.wav", audio)
	if err != nil {
		return "", fmt.Errorf("transcribing answer: %w", err)
	}
	if transcript == "" {
		return "", fmt.Errorf("transcription came back empty")
	}

	return transcript, nil
}

func typeAnswer() (string, bool, error) {
	answer, err := promptText("Your answer", false)
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) {
			return "", true, nil
		}
		return "", false, err
	}

	return answer, false, nil
}

func speakAgain(ctx context.Context, speaker *speech.Speaker, question string) error {
	return speaker.Speak(ctx, question)
}

func finish(ctx context.Context, zl *zap.Logger, ctrl *session.Controller) {
	result, err := ctrl.End(ctx)
	if err != nil {
		zl.Error("ending session", zap.Error(err))
	}
	report(zl, result)
}

func report(zl *zap.Logger, result *session.Result) {
	if result == nil {
		return
	}

	if result.SavedLocally {
		fmt.Printf("\nInterview complete. The platform could not be reached, so your session was saved locally (%s).\n", result.ArchiveID)
		fmt.Println("Run 'voxhire sessions resubmit " + result.ArchiveID + "' to try again later.")
		return
	}

	fmt.Printf("\nInterview complete in %ds.\n", result.Duration)

	if len(result.Feedback) > 0 {
		pretty, err := json.MarshalIndent(result.Feedback, "", "  ")
		if err != nil {
			zl.Warn("rendering feedback", zap.Error(err))
			return
		}
		fmt.Printf("Feedback:\n%s\n", pretty)
	}
}
