// Package ai implements the career-coach features on top of a
// Groq-hosted OpenAI-compatible chat API.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
)

// Client calls the chat API. A zero model override keeps each
// feature's own default model.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a client for the given key. baseURL may be empty for
// the upstream OpenAI endpoint; model overrides the per-feature
// defaults when set.
func New(apiKey, baseURL, model string) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)

	return &Client{api: &client, model: model}
}

// chatRequest is one completion call. jsonMode asks the API to return
// a single JSON object.
type chatRequest struct {
	system      string
	user        string
	model       string
	temperature float64
	maxTokens   int64
	jsonMode    bool
}

// askFunc is the seam between the features and the chat API, swapped
// out in tests.
type askFunc func(ctx context.Context, req chatRequest) (string, error)

func (c *Client) chat(ctx context.Context, req chatRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.system != "" {
		messages = append(messages, openai.SystemMessage(req.system))
	}
	messages = append(messages, openai.UserMessage(req.user))

	params := openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       openai.ChatModel(c.pick(req.model)),
		Temperature: openai.Float(req.temperature),
		MaxTokens:   openai.Int(req.maxTokens),
	}
	if req.jsonMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: constant.JSONObject("json_object"),
			},
		}
	}

	completion, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat api error: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("no response from model")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func (c *Client) pick(model string) string {
	if c.model != "" {
		return c.model
	}
	return model
}

// stripFences unwraps a markdown code fence when the model adds one
// despite being asked for raw JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
		return strings.TrimSpace(s)
	}
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
		return strings.TrimSpace(s)
	}
	return s
}

// requireKeys checks that every key is present in a decoded response.
func requireKeys(payload map[string]any, keys ...string) error {
	var missing []string
	for _, k := range keys {
		if _, ok := payload[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("model response missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
