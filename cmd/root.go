package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/voxhire/voxhire/internal/authn"
	"github.com/voxhire/voxhire/internal/logger"
	"github.com/voxhire/voxhire/internal/recruitai"
)

const (
	app = "voxhire"
)

type Config struct {
	APIURL    string           `mapstructure:"api-url"`
	UserAgent string           `mapstructure:"user-agent"`
	StateFile string           `mapstructure:"state-file"`
	ArchiveDB string           `mapstructure:"archive-db"`
	Interview *InterviewConfig `mapstructure:"interview"`
	AI        *AIConfig        `mapstructure:"ai"`
}

type InterviewConfig struct {
	QuestionTimeoutSeconds int      `mapstructure:"question-timeout-seconds"`
	PlayerCommand          []string `mapstructure:"player-command"`
	RecorderCommand        []string `mapstructure:"recorder-command"`
	MaxRecordingSeconds    int      `mapstructure:"max-recording-seconds"`
	Muted                  bool     `mapstructure:"muted"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "voxhire is a terminal client for the VoxHire interview platform",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("state-file", "VOXHIRE_STATE_FILE"); err != nil {
		log.Fatalf("binding VOXHIRE_STATE_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "VOXHIRE_GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding VOXHIRE_GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is voxhire.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
		viper.SetConfigType("yaml")
	}

	// Every command works without a config file; an explicitly named one
	// must parse.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}

func newLogger() *zap.Logger {
	zl, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	return zl
}

func sessionStore(config *Config) (*authn.Store, error) {
	path := config.StateFile
	if path == "" {
		var err error
		path, err = authn.DefaultStatePath(app)
		if err != nil {
			return nil, err
		}
	}

	return authn.NewStore(path), nil
}

func apiClient(zl *zap.Logger, config *Config, token string) *recruitai.Client {
	client := recruitai.New(zl, token)
	if config.APIURL != "" {
		client.APIURL = config.APIURL
	}
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	return client
}

// requireSession loads the stored login and refuses to continue with a
// missing or expired token.
func requireSession(zl *zap.Logger, store *authn.Store) *authn.Session {
	session, err := store.Load()
	if err != nil {
		zl.Fatal("loading session",
			zap.Error(err),
			zap.String("hint", "run 'voxhire login' first"),
		)
	}

	if session.Expired(time.Now()) {
		zl.Fatal("session expired",
			zap.String("hint", "run 'voxhire login' to sign in again"),
		)
	}

	return session
}
