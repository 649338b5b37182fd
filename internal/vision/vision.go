// Package vision asks a multimodal chat model to read a scorecard image.
package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultPlayer is used in the prompt when the request names no player.
const DefaultPlayer = "the first player"

// ErrNoChoices is returned when the model answers without any message.
var ErrNoChoices = errors.New("vision model returned no choices")

// Prompt builds the instruction sent alongside the image.
func Prompt(player string) string {
	player = strings.TrimSpace(player)
	if player == "" {
		player = DefaultPlayer
	}
	return fmt.Sprintf(
		"Provide a list of all scores, holes 1 - 18, for %s from the attached scorecard. "+
			"Respond only with a JSON object whose keys are the hole numbers and whose values are %s's score for that hole. "+
			"If you are unsure on a particular hole, use \"Unk\" as the value.",
		player, player)
}

// Transcriber reads a scorecard image.
type Transcriber interface {
	Transcribe(ctx context.Context, apiKey, imageURL, player string) (string, error)
}

// Client implements Transcriber with the OpenAI chat completions API.
type Client struct {
	model   string
	baseURL string
}

// New returns a Client for model. baseURL overrides the API endpoint when non-empty.
func New(model, baseURL string) *Client {
	return &Client{model: model, baseURL: baseURL}
}

// Transcribe sends one user message holding the prompt and the image URL and returns
// the text of the first choice. The key is fetched per request, so a client is built
// per call.
func (c *Client) Transcribe(ctx context.Context, apiKey, imageURL, player string) (string, error) {
	cfg := openai.DefaultConfig(apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	client := openai.NewClientWithConfig(cfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: Prompt(player)},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
					URL:    imageURL,
					Detail: openai.ImageURLDetailHigh,
				}},
			},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}
