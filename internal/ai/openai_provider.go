package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/amishk599/boardsync/internal/model"
)

const systemPrompt = "You are a research assistant for a job board aggregator. Answer tersely and only with what is asked."

// OpenAIProvider calls an OpenAI-compatible /chat/completions endpoint.
type OpenAIProvider struct {
	client   *resty.Client
	model    string
	endpoint string
}

var _ model.Completer = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates a provider targeting baseURL (e.g. https://api.openai.com/v1).
// The timeout of httpClient bounds every call.
func NewOpenAIProvider(baseURL, apiKey, modelName string, httpClient *http.Client) *OpenAIProvider {
	client := resty.NewWithClient(httpClient)
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &OpenAIProvider{
		client:   client,
		model:    modelName,
		endpoint: strings.TrimRight(baseURL, "/") + "/chat/completions",
	}
}

// chatRequest mirrors the /chat/completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

// chatResponse mirrors the relevant fields of the response.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends prompt and returns the raw free-text answer. Answers are not
// cleaned here; see CleanAnswer, ExtractURL and ExtractJSON.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
		MaxTokens:   300,
	}

	var chatResp chatResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&chatResp).
		SetError(&chatResp).
		Post(p.endpoint)
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		httpErr := &model.HTTPError{StatusCode: resp.StatusCode()}
		if chatResp.Error != nil {
			httpErr.Err = fmt.Errorf("llm error (%s): %s", chatResp.Error.Type, chatResp.Error.Message)
		}
		return "", fmt.Errorf("llm request: %w", httpErr)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("llm error (%s): %s", chatResp.Error.Type, chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}
