package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

type GeminiClient struct {
	client   *resty.Client
	apiKey   string
	model    string
	baseURL  string
	postProc *PostProcessor
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Option customizes a GeminiClient
type Option func(*GeminiClient)

// WithBaseURL points the client at another models endpoint
func WithBaseURL(url string) Option {
	return func(g *GeminiClient) { g.baseURL = url }
}

// WithTimeout bounds each request
func WithTimeout(d time.Duration) Option {
	return func(g *GeminiClient) { g.client.SetTimeout(d) }
}

func NewGeminiClient(apiKey, model string, opts ...Option) *GeminiClient {
	g := &GeminiClient{
		client:   resty.New().SetTimeout(60 * time.Second),
		apiKey:   apiKey,
		model:    model,
		baseURL:  defaultBaseURL,
		postProc: NewPostProcessor(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RefineSuggestion asks the editor-in-chief persona for advice on an
// article proposal. Failures are returned as errors; choosing a fallback is
// the caller's business.
func (g *GeminiClient) RefineSuggestion(ctx context.Context, topic, description string) (string, error) {
	text, err := g.generate(ctx, BuildRefinePrompt(topic, description))
	if err != nil {
		return "", fmt.Errorf("refine suggestion: %w", err)
	}
	return text, nil
}

// SummarizeIssue condenses an issue body into three key points
func (g *GeminiClient) SummarizeIssue(ctx context.Context, content string) (string, error) {
	text, err := g.generate(ctx, BuildSummaryPrompt(content))
	if err != nil {
		return "", fmt.Errorf("summarize issue: %w", err)
	}
	return text, nil
}

func (g *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	raw, err := g.callGeminiAPI(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("error calling Gemini API: %w", err)
	}
	return g.postProc.CleanFeedback(raw)
}

func (g *GeminiClient) callGeminiAPI(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent", g.baseURL, g.model)

	req := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{
				Text: prompt,
			}},
		}},
	}

	var resp geminiResponse
	httpResp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", g.apiKey).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(url)

	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("API error: %s", resp.Error.Message)
	}

	if httpResp.IsError() {
		return "", fmt.Errorf("API returned status %d", httpResp.StatusCode())
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}
