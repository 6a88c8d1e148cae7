package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	appcfg "github.com/researchhub/core/internal/config"
	"github.com/researchhub/core/internal/models"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"
)

const maxOutputTokens = 1024

// Message is one turn handed to a backend.
type Message struct {
	Role    models.ChatRole `json:"role"`
	Content string          `json:"content"`
}

func isOpenAICompatibleBackendType(raw string) bool {
	t := normalizeBackendType(raw)
	return t == "openai-compatible" || t == "openaicompatible"
}

func isAnthropicBackendType(raw string) bool {
	return normalizeBackendType(raw) == "anthropic"
}

func normalizeBackendType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	return t
}

// callBackend sends a system prompt plus message turns to the backend
// and returns the raw completion text.
func callBackend(ctx context.Context, backend *appcfg.AIBackend, systemPrompt string, msgs []Message) (string, error) {
	if backend == nil {
		return "", errors.New("ai backend is nil")
	}

	if isOpenAICompatibleBackendType(backend.Type) {
		return callChatCompletions(ctx, backend, systemPrompt, msgs, nil)
	}

	model, err := buildLanguageModel(backend)
	if err != nil {
		return "", err
	}
	resp, err := jetai.GenerateText(
		ctx,
		buildPromptMessages(systemPrompt, msgs),
		jetai.WithModel(model),
		jetai.WithMaxOutputTokens(maxOutputTokens),
	)
	if err != nil {
		return "", err
	}
	return extractTextFromResponse(resp)
}

// callVision runs an OCR-style prompt over one page image. Only
// OpenAI-wire backends carry vision here, which the registry flags
// already encode.
func callVision(ctx context.Context, backend *appcfg.AIBackend, prompt string, imagePNG []byte) (string, error) {
	if backend == nil {
		return "", errors.New("ai backend is nil")
	}
	if isAnthropicBackendType(backend.Type) {
		return "", fmt.Errorf("backend %s does not take vision calls on this path", backend.ID)
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(imagePNG)
	content := []map[string]interface{}{
		{"type": "text", "text": prompt},
		{"type": "image_url", "image_url": map[string]string{"url": dataURL}},
	}
	return callChatCompletions(ctx, backend, "", nil, content)
}

// callChatCompletions is the raw OpenAI-wire chat completions path, used
// for openai-compatible backends and for vision payloads.
func callChatCompletions(ctx context.Context, backend *appcfg.AIBackend, systemPrompt string, msgs []Message, userContent interface{}) (string, error) {
	if strings.TrimSpace(backend.APIKey) == "" {
		return "", errors.New("ai backend api key is empty")
	}

	endpoint := normalizeChatEndpoint(backend.Endpoint)
	model := strings.TrimSpace(backend.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}

	messages := make([]map[string]interface{}, 0, len(msgs)+2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, map[string]interface{}{
			"role":    "system",
			"content": systemPrompt,
		})
	}
	for _, m := range msgs {
		messages = append(messages, map[string]interface{}{
			"role":    string(m.Role),
			"content": m.Content,
		})
	}
	if userContent != nil {
		messages = append(messages, map[string]interface{}{
			"role":    "user",
			"content": userContent,
		})
	}

	body, _ := json.Marshal(map[string]interface{}{
		"model":      model,
		"messages":   messages,
		"max_tokens": maxOutputTokens,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(backend.APIKey))
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: appcfg.UpstreamTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("backend error: %s", strings.TrimSpace(string(respBody)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if result.Error != nil && strings.TrimSpace(result.Error.Message) != "" {
		return "", fmt.Errorf("backend error: %s", result.Error.Message)
	}
	if strings.TrimSpace(result.Message) != "" && len(result.Choices) == 0 {
		return "", fmt.Errorf("backend error: %s", result.Message)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("empty response from backend")
	}
	return result.Choices[0].Message.Content, nil
}

func buildPromptMessages(systemPrompt string, msgs []Message) []jetapi.Message {
	messages := make([]jetapi.Message, 0, len(msgs)+1)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, &jetapi.SystemMessage{Content: systemPrompt})
	}
	for _, m := range msgs {
		if m.Role == models.RoleAssistant {
			messages = append(messages, &jetapi.AssistantMessage{Content: jetapi.ContentFromText(m.Content)})
			continue
		}
		messages = append(messages, &jetapi.UserMessage{Content: jetapi.ContentFromText(m.Content)})
	}
	return messages
}

func extractTextFromResponse(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", errors.New("empty response from backend")
	}

	var full strings.Builder
	for _, block := range resp.Content {
		textBlock, ok := block.(*jetapi.TextBlock)
		if !ok || textBlock.Text == "" {
			continue
		}
		full.WriteString(textBlock.Text)
	}

	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty response from backend")
	}
	return text, nil
}

func buildLanguageModel(backend *appcfg.AIBackend) (jetapi.LanguageModel, error) {
	apiKey := strings.TrimSpace(backend.APIKey)
	if apiKey == "" {
		return nil, errors.New("ai backend api key is empty")
	}

	modelID := strings.TrimSpace(backend.Model)
	endpoint := strings.TrimSpace(backend.Endpoint)

	if isAnthropicBackendType(backend.Type) {
		if modelID == "" {
			modelID = "claude-haiku-4-5-20251001"
		}

		opts := []anthropicoption.RequestOption{
			anthropicoption.WithAPIKey(apiKey),
			anthropicoption.WithMaxRetries(0),
		}
		if endpoint != "" {
			opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
		}

		client := anthropicclient.NewClient(opts...)
		return jetanthropic.NewLanguageModel(modelID, jetanthropic.WithClient(client)), nil
	}

	if modelID == "" {
		modelID = "gpt-4o-mini"
	}

	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(apiKey),
		openaioption.WithMaxRetries(0),
	}
	if normalized := normalizeOpenAIBaseURL(endpoint); normalized != "" {
		opts = append(opts, openaioption.WithBaseURL(normalized))
	}

	client := openaiclient.NewClient(opts...)
	return jetopenai.NewLanguageModel(modelID, jetopenai.WithClient(client)), nil
}

func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		if path == "" {
			path = "/v1"
		} else {
			path += "/v1"
		}
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}

// normalizeChatEndpoint strips a trailing /v1 so the completions path can
// be appended uniformly.
func normalizeChatEndpoint(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return "https://api.openai.com"
	}

	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		cleaned := strings.TrimRight(base, "/")
		return strings.TrimSuffix(cleaned, "/v1")
	}

	path := strings.TrimRight(parsed.Path, "/")
	path = strings.TrimSuffix(path, "/v1")
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}

func unmarshalAIJSON(raw string, out interface{}) error {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if err := json.Unmarshal([]byte(cleaned), out); err == nil {
		return nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), out); err == nil {
			return nil
		}
	}

	return fmt.Errorf("invalid JSON response from backend")
}

func truncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}
