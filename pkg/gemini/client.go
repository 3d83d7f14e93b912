// Package gemini wraps the Google generative-text API behind a client that
// degrades instead of failing: every call returns usable text, falling back
// to a static message when no credential is configured or every model
// attempt fails.
package gemini

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// FallbackText is returned whenever no model produces usable output.
const FallbackText = "AI key not configured. For demo: Many e-waste components can leach toxic substances like lead, " +
	"mercury, and brominated flame retardants. These can contaminate soil and water, harm the nervous " +
	"and endocrine systems, and persist in the environment. Always dispose of devices at certified " +
	"recycling centers to reduce exposure and enable safe material recovery."

// Response is the outcome of a generate call. It is always populated: on
// total provider failure Text holds FallbackText and Degraded is true.
type Response struct {
	Text     string `json:"text"`
	Model    string `json:"model,omitempty"`
	Degraded bool   `json:"degraded"`
	Reason   string `json:"reason,omitempty"`
}

// Client generates text for a prompt. Implementations never return an
// error; provider failures degrade to FallbackText.
type Client interface {
	Generate(ctx context.Context, prompt string) Response
}

// Option configures the client.
type Option func(*client)

// WithModel sets an explicit model tried before discovery.
func WithModel(name string) Option {
	return func(c *client) {
		c.explicitModel = name
	}
}

// WithClientOptions overrides the underlying API client options, replacing
// the credential option derived from the API key. Used by tests.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(c *client) {
		c.clientOpts = opts
	}
}

type client struct {
	apiKey        string
	explicitModel string
	clientOpts    []option.ClientOption
}

// NewClient creates a generative-text client. An empty apiKey is valid and
// yields a client that always returns the static fallback.
func NewClient(apiKey string, opts ...Option) Client {
	c := &client{apiKey: apiKey}
	for _, o := range opts {
		o(c)
	}
	if c.clientOpts == nil && apiKey != "" {
		c.clientOpts = []option.ClientOption{option.WithAPIKey(apiKey)}
	}
	return c
}

func (c *client) Generate(ctx context.Context, prompt string) Response {
	if c.apiKey == "" {
		return Response{Text: FallbackText, Degraded: true, Reason: "no api key configured"}
	}

	cl, err := genai.NewClient(ctx, c.clientOpts...)
	if err != nil {
		zap.L().Warn("gemini: client init failed", zap.Error(err))
		return Response{Text: FallbackText, Degraded: true, Reason: "client init failed"}
	}
	defer cl.Close()

	if c.explicitModel != "" {
		if text, err := c.tryModel(ctx, cl, c.explicitModel, prompt); err == nil {
			return Response{Text: text, Model: c.explicitModel}
		} else {
			zap.L().Warn("gemini: model failed", zap.String("model", c.explicitModel), zap.Error(err))
		}
	}

	for _, name := range RankModels(c.discoverModels(ctx, cl)) {
		text, err := c.tryModel(ctx, cl, name, prompt)
		if err != nil {
			zap.L().Warn("gemini: model failed", zap.String("model", name), zap.Error(err))
			continue
		}
		return Response{Text: text, Model: name}
	}

	return Response{Text: FallbackText, Degraded: true, Reason: "all models failed"}
}

// discoverModels lists the models the credential supports, filtered to
// those that can generate free text. Discovery order is preserved.
func (c *client) discoverModels(ctx context.Context, cl *genai.Client) []string {
	var names []string
	it := cl.ListModels(ctx)
	for {
		m, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			zap.L().Warn("gemini: list models failed", zap.Error(err))
			break
		}
		if supportsText(m.SupportedGenerationMethods) {
			names = append(names, m.Name)
		}
	}
	return names
}

func (c *client) tryModel(ctx context.Context, cl *genai.Client, name, prompt string) (string, error) {
	m := cl.GenerativeModel(strings.TrimPrefix(name, "models/"))
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(firstText(resp))
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}
