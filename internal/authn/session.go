package authn

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/voxhire/voxhire/internal/recruitai"
)

// ErrNotLoggedIn is returned when no stored session exists.
var ErrNotLoggedIn = errors.New("not logged in")

// Session is the persisted login state: the bearer token plus the profile the
// platform returned with it. It is loaded once at startup and passed
// explicitly to whatever needs it; there is no global.
type Session struct {
	Token string         `json:"token"`
	User  recruitai.User `json:"user"`
}

// Expired reports whether the token's exp claim is in the past. The signature
// is NOT verified here; the backend owns verification, the client only wants
// to know whether asking it is pointless. Tokens without a readable exp claim
// are treated as live and left for the server to reject.
func (s *Session) Expired(now time.Time) bool {
	if s == nil || strings.TrimSpace(s.Token) == "" {
		return true
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(now)
}

// Store persists sessions to a single JSON state file.
type Store struct {
	Path string
}

func NewStore(path string) *Store {
	return &Store{Path: path}
}

// DefaultStatePath places the state file under the user config directory.
func DefaultStatePath(app string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}

	return filepath.Join(dir, app, "session.json"), nil
}

func (st *Store) Load() (*Session, error) {
	data, err := os.ReadFile(st.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("reading session state: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parsing session state: %w", err)
	}

	if strings.TrimSpace(session.Token) == "" {
		return nil, ErrNotLoggedIn
	}

	return &session, nil
}

func (st *Store) Save(session *Session) error {
	if session == nil || strings.TrimSpace(session.Token) == "" {
		return fmt.Errorf("a session with a token is required")
	}

	if err := os.MkdirAll(filepath.Dir(st.Path), 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}

	// The token is a credential, keep the file private.
	if err := os.WriteFile(st.Path, data, 0o600); err != nil {
		return fmt.Errorf("writing session state: %w", err)
	}

	return nil
}

func (st *Store) Clear() error {
	if err := os.Remove(st.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session state: %w", err)
	}

	return nil
}
