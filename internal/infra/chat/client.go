package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/osvaldoandrade/docforge/internal/domain"
	"github.com/sashabaranov/go-openai"
)

var ErrEndpointRequired = errors.New("service endpoint required")
var ErrModelRequired = errors.New("service model required")
var ErrEmptyCompletion = errors.New("completion returned no content")

const defaultTimeout = 300 * time.Second

// Client sends payloads to an OpenAI compatible chat completion endpoint.
// A profile with an API version is addressed as an Azure deployment named
// after the profile model.
type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{}
}

// NewClientWithHTTP uses httpClient for every request and ignores the
// profile proxy and timeout.
func NewClientWithHTTP(httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient}
}

func (c *Client) Complete(ctx context.Context, payload domain.Payload) (string, error) {
	profile := payload.Profile
	api, err := c.api(profile)
	if err != nil {
		return "", err
	}

	req := openai.ChatCompletionRequest{
		Model:            strings.TrimSpace(profile.Model),
		Messages:         make([]openai.ChatCompletionMessage, 0, len(payload.Messages)),
		Temperature:      float32(profile.Tunes.Temperature),
		TopP:             float32(profile.Tunes.TopP),
		MaxTokens:        profile.Tunes.MaxOutputTokens,
		FrequencyPenalty: float32(profile.Tunes.FrequencyPenalty),
		PresencePenalty:  float32(profile.Tunes.PresencePenalty),
	}
	for _, message := range payload.Messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    chatRole(message.Role),
			Content: message.Content,
		})
	}

	resp, err := api.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("completion failed (%d): %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("send completion request: %w", err)
	}

	var out strings.Builder
	for _, choice := range resp.Choices {
		out.WriteString(choice.Message.Content)
	}
	if out.Len() == 0 {
		return "", ErrEmptyCompletion
	}
	return out.String(), nil
}

// api configures an OpenAI client for profile. Azure deployment names are
// used as given; the library default strips dots from model names.
func (c *Client) api(profile domain.ServiceProfile) (*openai.Client, error) {
	base := strings.TrimRight(strings.TrimSpace(profile.Endpoint), "/")
	if base == "" {
		return nil, ErrEndpointRequired
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", base, err)
	}

	key := strings.TrimSpace(profile.APIKey)
	var cfg openai.ClientConfig
	if version := strings.TrimSpace(profile.APIVersion); version != "" {
		if strings.TrimSpace(profile.Model) == "" {
			return nil, ErrModelRequired
		}
		cfg = openai.DefaultAzureConfig(key, base)
		cfg.APIVersion = version
		cfg.AzureModelMapperFunc = func(model string) string { return model }
	} else {
		cfg = openai.DefaultConfig(key)
		cfg.BaseURL = base
	}

	httpClient, err := c.client(profile)
	if err != nil {
		return nil, err
	}
	cfg.HTTPClient = httpClient
	return openai.NewClientWithConfig(cfg), nil
}

func (c *Client) client(profile domain.ServiceProfile) (*http.Client, error) {
	if c.httpClient != nil {
		return c.httpClient, nil
	}
	timeout := defaultTimeout
	if profile.TimeoutSeconds > 0 {
		timeout = time.Duration(profile.TimeoutSeconds) * time.Second
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxy := strings.TrimSpace(profile.Proxy); proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("parse proxy %q: %w", proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	return &http.Client{Timeout: timeout, Transport: transport}, nil
}

func chatRole(role domain.Role) string {
	switch domain.NormalizeRole(role) {
	case domain.RoleSystem:
		return openai.ChatMessageRoleSystem
	case domain.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}
