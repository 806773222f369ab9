package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-2.0-flash-lite"

	// maxErrorBodyBytes caps how much of a provider error body is read
	// into error messages.
	maxErrorBodyBytes = 4 << 10
)

// GeminiLLM implements LLMClient against Google's generateContent API.
// The API key travels in the request query string, so error messages
// carry only the HTTP status and response body, never the URL.
type GeminiLLM struct {
	apiKey     string
	baseURL    string
	model      string
	genConfig  GenerationConfig
	httpClient *http.Client
}

// NewGeminiLLM validates the settings and builds a Gemini client. A
// missing API key is a configuration error, never silently defaulted.
func NewGeminiLLM(cfg *LLMSettings) (*GeminiLLM, error) {
	if cfg == nil {
		return nil, NewGenError(ErrInvalidRequest, "llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, NewGenError(ErrMissingAPIKey, "gemini api key missing; set llm.api_key or GEMINI_API_KEY")
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	genConfig := DefaultGenerationConfig()
	if cfg.MaxOutputTokens > 0 {
		genConfig.MaxOutputTokens = cfg.MaxOutputTokens
	}
	return &GeminiLLM{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      model,
		genConfig:  genConfig,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiSafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
	SafetySettings   []geminiSafetySetting  `json:"safetySettings"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

// defaultSafetySettings blocks medium-and-above content in the four
// standard harm categories on every request.
func defaultSafetySettings() []geminiSafetySetting {
	categories := []string{
		"HARM_CATEGORY_HARASSMENT",
		"HARM_CATEGORY_HATE_SPEECH",
		"HARM_CATEGORY_SEXUALLY_EXPLICIT",
		"HARM_CATEGORY_DANGEROUS_CONTENT",
	}
	settings := make([]geminiSafetySetting, 0, len(categories))
	for _, c := range categories {
		settings = append(settings, geminiSafetySetting{
			Category:  c,
			Threshold: "BLOCK_MEDIUM_AND_ABOVE",
		})
	}
	return settings
}

// Complete sends the prompt as the sole content part and extracts the
// first candidate's first part.
func (g *GeminiLLM) Complete(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", NewGenError(ErrInvalidRequest, "prompt is required")
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     g.genConfig.Temperature,
			TopP:            g.genConfig.TopP,
			TopK:            g.genConfig.TopK,
			MaxOutputTokens: g.genConfig.MaxOutputTokens,
		},
		SafetySettings: defaultSafetySettings(),
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", WrapGenError(ErrInvalidRequest, "marshal gemini request", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", WrapGenError(ErrInvalidRequest, "build gemini request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", &GenError{
			Code:      ErrNetworkFailed,
			Message:   "gemini request failed",
			Retryable: true,
			Cause:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		msg := fmt.Sprintf("gemini api error (%d): %s", resp.StatusCode, string(body))
		code := ErrCompletionFailed
		retryable := false
		if resp.StatusCode == http.StatusServiceUnavailable || IsOverloadMessage(string(body)) {
			code = ErrProviderOverloaded
			retryable = true
		}
		return "", &GenError{Code: code, Message: msg, Retryable: retryable}
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", WrapGenError(ErrResponseParseFailed, "decode gemini response", err)
	}
	return processGeminiResponse(&out)
}

// processGeminiResponse extracts the generated text. An absent
// candidate path is a parse failure, never an empty success.
func processGeminiResponse(resp *geminiResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", NewGenError(ErrResponseParseFailed, "unexpected response format from gemini api")
	}
	text := resp.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", NewGenError(ErrResponseParseFailed, "gemini response contained no text")
	}
	return text, nil
}
