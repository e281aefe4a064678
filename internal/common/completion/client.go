// Package completion wraps the OpenAI chat completions API for
// schema-constrained structured output.
package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	commonhttp "committee-matcher/internal/common/http"
)

var (
	ErrEmptyCompletion = errors.New("completion returned no choices")
	ErrRefused         = errors.New("completion refused")
)

// Request is one schema-constrained completion call.
type Request struct {
	Instructions string
	Input        string
	SchemaName   string
	Schema       map[string]interface{}
	Temperature  float64
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type Client struct {
	client openai.Client
	model  string
}

// NewClient builds a client with SDK retries disabled; every failure is
// surfaced to the caller on the first attempt.
func NewClient(cfg Config) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(commonhttp.NewClient(cfg.Timeout)),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

// CompleteWithSchema sends the instructions as the system message and the
// input as the user message, and returns the raw text of the first choice.
func (c *Client) CompleteWithSchema(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.Instructions),
			openai.UserMessage(req.Input),
		},
		Temperature: openai.Float(req.Temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   req.SchemaName,
					Schema: req.Schema,
					Strict: openai.Bool(true),
				},
			},
		},
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return "", fmt.Errorf("%w: %s", ErrRefused, msg.Refusal)
	}
	return msg.Content, nil
}

// ErrorMessage extracts the most specific message available: the API's own
// error message first, then the error text. It returns "" for nil.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
