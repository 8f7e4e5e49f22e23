package recruitai

import (
	"context"
	"fmt"
	"strings"
)

// TextToSpeech synthesizes the given text and returns the audio payload.
func (c *Client) TextToSpeech(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	return c.postRaw(ctx, interviewPath+"/text-to-speech", map[string]string{"text": text})
}

// SpeechToText transcribes a recorded answer.
func (c *Client) SpeechToText(ctx context.Context, filename string, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("audio payload is empty")
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := c.postFile(ctx, interviewPath+"/speech-to-text", "audio", filename, audio, nil, &result); err != nil {
		return "", err
	}

	return strings.TrimSpace(result.Text), nil
}
