package cmd

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/voxhire/voxhire/internal/authn"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the platform and store the session locally",
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

		email, err := promptText("Email", false)
		if err != nil {
			zl.Fatal("reading email", zap.Error(err))
		}
		password, err := promptText("Password", true)
		if err != nil {
			zl.Fatal("reading password", zap.Error(err))
		}

		client := apiClient(zl, config, "")
		result, err := client.Login(cmd.Context(), email, password)
		if err != nil {
			zl.Fatal("logging in", zap.Error(err))
		}

		if err := store.Save(&authn.Session{Token: result.Token, User: result.User}); err != nil {
			zl.Fatal("saving session", zap.Error(err))
		}

		fmt.Printf("Logged in as %s (%s)\n", result.User.Name, result.User.Email)
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
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

		name, err := promptText("Full name", false)
		if err != nil {
			zl.Fatal("reading name", zap.Error(err))
		}
		email, err := promptText("Email", false)
		if err != nil {
			zl.Fatal("reading email", zap.Error(err))
		}
		password, err := promptText("Password", true)
		if err != nil {
			zl.Fatal("reading password", zap.Error(err))
		}
		confirm, err := promptText("Confirm password", true)
		if err != nil {
			zl.Fatal("reading password confirmation", zap.Error(err))
		}

		// Validated locally; nothing is sent when the passwords differ.
		if password != confirm {
			zl.Fatal("passwords do not match")
		}

		roleSelect := promptui.Select{
			Label: "Account type",
			Items: []string{"candidate", "recruiter"},
		}
		_, role, err := roleSelect.Run()
		if err != nil {
			zl.Fatal("selecting account type", zap.Error(err))
		}

		client := apiClient(zl, config, "")
		result, err := client.Signup(cmd.Context(), name, email, password, role)
		if err != nil {
			zl.Fatal("signing up", zap.Error(err))
		}

		if err := store.Save(&authn.Session{Token: result.Token, User: result.User}); err != nil {
			zl.Fatal("saving session", zap.Error(err))
		}

		fmt.Printf("Account created, logged in as %s (%s)\n", result.User.Name, result.User.Email)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Run: func(_ *cobra.Command, _ []string) {
		zl := newLogger()

		config, err := getConfig()
		if err != nil {
			zl.Fatal("getting a config", zap.Error(err))
		}
		store, err := sessionStore(config)
		if err != nil {
			zl.Fatal("resolving session state path", zap.Error(err))
		}

		if err := store.Clear(); err != nil {
			zl.Fatal("clearing session", zap.Error(err))
		}

		fmt.Println("Logged out")
	},
}

var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password [email]",
	Short: "Request a password reset email",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		zl := newLogger()

		config, err := getConfig()
		if err != nil {
			zl.Fatal("getting a config", zap.Error(err))
		}

		var email string
		if len(args) == 1 {
			email = args[0]
		} else {
			email, err = promptText("Email", false)
			if err != nil {
				zl.Fatal("reading email", zap.Error(err))
			}
		}

		client := apiClient(zl, config, "")
		if err := client.ForgotPassword(cmd.Context(), email); err != nil {
			zl.Fatal("requesting password reset", zap.Error(err))
		}

		fmt.Println("If the address is registered, a reset email is on its way")
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password with a reset token",
	Run: func(cmd *cobra.Command, _ []string) {
		zl := newLogger()

		config, err := getConfig()
		if err != nil {
			zl.Fatal("getting a config", zap.Error(err))
		}

		token, err := promptText("Reset token", false)
		if err != nil {
			zl.Fatal("reading reset token", zap.Error(err))
		}
		password, err := promptText("New password", true)
		if err != nil {
			zl.Fatal("reading password", zap.Error(err))
		}
		confirm, err := promptText("Confirm password", true)
		if err != nil {
			zl.Fatal("reading password confirmation", zap.Error(err))
		}
		if password != confirm {
			zl.Fatal("passwords do not match")
		}

		client := apiClient(zl, config, "")
		if err := client.ResetPassword(cmd.Context(), token, password); err != nil {
			zl.Fatal("resetting password", zap.Error(err))
		}

		fmt.Println("Password updated, you can log in now")
	},
}

func promptText(label string, masked bool) (string, error) {
	p := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("%s is required", strings.ToLower(label))
			}
			return nil
		},
	}
	if masked {
		p.Mask = '*'
	}

	value, err := p.Run()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(value), nil
}

func init() {
	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, forgotPasswordCmd, resetPasswordCmd)
}
