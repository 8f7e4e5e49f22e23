package recruitai

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "https://api.voxhire.io/api"
	userAgent = "voxhire-cli"
)

// Client talks to the VoxHire platform API. All AI inference (question
// generation, transcription, resume parsing, scoring of answers) happens on
// the server side; the client only moves payloads.
type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(logger *zap.Logger, token string) *Client {
	return &Client{
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// SetToken replaces the bearer token, e.g. right after login.
func (c *Client) SetToken(token string) {
	c.token = token
}
