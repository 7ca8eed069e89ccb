package gemini

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/oulia/oulia/gateway/internal/domain/service"
	"github.com/oulia/oulia/gateway/internal/domain/valueobject"
	llm "github.com/oulia/oulia/gateway/internal/infrastructure/llm"
)

const (
	roleUser  = "user"
	roleModel = "model"

	// emptyTurnPlaceholder stands in for a blank stored turn; the API
	// rejects parts without content.
	emptyTurnPlaceholder = "..."
)

// Config 配置 Gemini 客户端
type Config struct {
	BaseURL     string
	APIKey      string
	VisionModel string
	Generation  valueobject.ModelConfig
	Media       *llm.MediaLoader
	// HTTPClient overrides the default transport. Used by tests.
	HTTPClient *http.Client
}

// Provider implements service.LanguageModel over the Gemini REST API.
type Provider struct {
	baseURL     string
	apiKey      string
	visionModel string
	generation  valueobject.ModelConfig
	media       *llm.MediaLoader
	client      *http.Client
	logger      *zap.Logger
}

var _ service.LanguageModel = (*Provider)(nil)

// New creates a Google Gemini API provider.
func New(cfg Config, logger *zap.Logger) *Provider {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	client := cfg.HTTPClient
	if client == nil {
		transport := &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   15 * time.Second,
			ResponseHeaderTimeout: 120 * time.Second,
			IdleConnTimeout:       90 * time.Second,
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   5,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
		}
		client = &http.Client{Transport: transport}
	}

	generation := cfg.Generation
	if generation.Model() == "" {
		generation = valueobject.DefaultModelConfig()
	}
	vision := cfg.VisionModel
	if vision == "" {
		vision = generation.Model()
	}
	media := cfg.Media
	if media == nil {
		media = llm.NewMediaLoader(0, 0)
	}

	return &Provider{
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		visionModel: vision,
		generation:  generation,
		media:       media,
		client:      client,
		logger:      logger.With(zap.String("provider", "gemini")),
	}
}

// GenerateChatReply sends the system context as the first exchange, then
// history, then the new guest message.
func (p *Provider) GenerateChatReply(ctx context.Context, systemContext string, history []service.ChatTurn, newMessage string) (string, error) {
	contents := make([]Content, 0, len(history)+3)
	contents = appendTurn(contents, roleUser, service.ContextPreamble)
	contents = appendTurn(contents, roleModel, systemContext)
	for _, turn := range history {
		role := roleUser
		if turn.Role == service.ChatRoleModel {
			role = roleModel
		}
		contents = appendTurn(contents, role, turn.Text)
	}
	contents = appendTurn(contents, roleUser, newMessage)

	return p.generate(ctx, p.generation.Model(), contents)
}

// AnalyzeImage inlines the media behind mediaRef next to instruction.
func (p *Provider) AnalyzeImage(ctx context.Context, mediaRef, instruction string) (string, error) {
	media, err := p.media.Load(ctx, mediaRef)
	if err != nil {
		return "", err
	}
	contents := []Content{{
		Role: roleUser,
		Parts: []Part{
			{Text: instruction},
			{InlineData: &Blob{MimeType: media.MimeType, Data: media.Data}},
		},
	}}
	return p.generate(ctx, p.visionModel, contents)
}

func (p *Provider) GenerateText(ctx context.Context, prompt string) (string, error) {
	contents := appendTurn(nil, roleUser, prompt)
	return p.generate(ctx, p.generation.Model(), contents)
}

// --- Internal ---

// appendTurn merges consecutive turns of one role, as the API requires
// strict user/model alternation.
func appendTurn(contents []Content, role, text string) []Content {
	if strings.TrimSpace(text) == "" {
		text = emptyTurnPlaceholder
	}
	if n := len(contents); n > 0 && contents[n-1].Role == role {
		contents[n-1].Parts = append(contents[n-1].Parts, Part{Text: text})
		return contents
	}
	return append(contents, Content{Role: role, Parts: []Part{{Text: text}}})
}

func (p *Provider) generate(ctx context.Context, model string, contents []Content) (string, error) {
	apiReq := &Request{
		Contents: contents,
		GenerationConfig: &GenerationConfig{
			Temperature:     p.generation.Temperature(),
			TopP:            p.generation.TopP(),
			TopK:            p.generation.TopK(),
			MaxOutputTokens: p.generation.MaxOutputTokens(),
		},
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", p.baseURL, model, p.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		// url.Error carries the request URL, and with it the API key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return "", service.ClassifyError(err, model)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", service.ClassifyError(fmt.Errorf("read response: %w", err), model)
	}

	if resp.StatusCode != http.StatusOK {
		p.logger.Warn("Gemini API error",
			zap.String("model", model),
			zap.Int("status", resp.StatusCode),
		)
		return "", service.NewHTTPError(resp.StatusCode, string(respBody), model)
	}

	text, usage, err := parseAPIResponse(respBody, model)
	if err != nil {
		return "", err
	}

	p.logger.Debug("Gemini generation completed",
		zap.String("model", model),
		zap.Int("tokens", usage),
		zap.Duration("latency", time.Since(start)),
	)
	return text, nil
}

func parseAPIResponse(body []byte, model string) (string, int, error) {
	var apiResp Response
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", 0, &service.LLMError{Kind: service.ErrKindTransient, Message: "parse Gemini response", Model: model, Cause: err}
	}

	if apiResp.PromptFeedback != nil && apiResp.PromptFeedback.BlockReason != "" {
		return "", 0, &service.LLMError{
			Kind:    service.ErrKindContentFilter,
			Message: "prompt blocked: " + apiResp.PromptFeedback.BlockReason,
			Model:   model,
		}
	}
	if len(apiResp.Candidates) == 0 {
		return "", 0, &service.LLMError{Kind: service.ErrKindContentFilter, Message: "empty Gemini response: no candidates", Model: model}
	}

	candidate := apiResp.Candidates[0]
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 && candidate.FinishReason == "SAFETY" {
		return "", 0, &service.LLMError{Kind: service.ErrKindContentFilter, Message: "response blocked by safety filter", Model: model}
	}

	usage := 0
	if apiResp.UsageMetadata != nil {
		usage = apiResp.UsageMetadata.Total()
	}
	return sb.String(), usage, nil
}
