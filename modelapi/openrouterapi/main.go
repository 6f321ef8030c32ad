package openrouterapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"monbondhu/conversation"
	"monbondhu/httpmiddleware"
	"monbondhu/logger"
	"monbondhu/modelapi"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const (
	OPENROUTER_URL   = "https://openrouter.ai/api/v1/chat/completions"
	OPENROUTER_MODEL = "deepseek/deepseek-r1-0528:free"
)

const (
	keyPlaceholder = "YOUR_OPENROUTER_API_KEY_HERE"
	requestTimeout = 30 * time.Second
)

type chatRequestInput struct {
	Model       string                 `json:"model"`
	Messages    []conversation.Message `json:"messages"`
	Temperature float64                `json:"temperature"`
	TopP        float64                `json:"top_p"`
	MaxTokens   int                    `json:"max_tokens"`
}

type chatResponse struct {
	Choices []choice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type choice struct {
	Index        int                  `json:"index"`
	Message      conversation.Message `json:"message"`
	FinishReason string               `json:"finish_reason"`
}

type OpenRouterConnectProps struct {
	Logger *logger.LogMiddleware
}

type OpenRouter struct {
	logger    *logger.LogMiddleware
	semaphore *semaphore.Weighted
	apiKey    string
	url       string
	timeout   time.Duration
}

func Connect(ctx context.Context, args OpenRouterConnectProps) *OpenRouter {
	tracer := otel.Tracer("openrouterapi/Connect")
	ctx, span := tracer.Start(ctx, "Connect")
	defer span.End()

	maxWorkers := 10
	sem := semaphore.NewWeighted(int64(maxWorkers))

	span.SetAttributes(attribute.Int("maxWorkers", maxWorkers))

	return &OpenRouter{
		logger:    args.Logger,
		semaphore: sem,
		apiKey:    os.Getenv("OPENROUTER_SECRET_KEY"),
		url:       OPENROUTER_URL,
		timeout:   requestTimeout,
	}
}

// Complete issues exactly one completion call for the assembled request.
// Fail-fast: no retries here; callers decide whether a retryable failure is
// worth a second turn.
func (o *OpenRouter) Complete(ctx context.Context, request *conversation.CompletionRequest) (string, error) {
	tracer := otel.Tracer("openrouterapi/Complete")
	ctx, span := tracer.Start(ctx, "Complete")
	defer span.End()

	span.SetAttributes(
		attribute.String("request.model", OPENROUTER_MODEL),
		attribute.Int("request.messages", len(request.Messages)),
	)

	// The credential check must fail before any network I/O.
	if strings.TrimSpace(o.apiKey) == "" || o.apiKey == keyPlaceholder {
		err := modelapi.NewConfigurationError()
		span.RecordError(err)
		o.logger.Logger(ctx).Error("[OpenRouter-API] API key missing or placeholder")
		return "", err
	}

	input := chatRequestInput{
		Model:       OPENROUTER_MODEL,
		Messages:    request.Messages,
		Temperature: request.Temperature,
		TopP:        request.TopP,
		MaxTokens:   request.MaxTokens,
	}

	jsonData, err := json.Marshal(input)
	if err != nil {
		span.RecordError(err)
		return "", modelapi.NewUnclassifiedError(fmt.Errorf("could not generate request body: %w", err))
	}

	if err := o.semaphore.Acquire(ctx, 1); err != nil {
		span.RecordError(err)
		return "", modelapi.NewUnclassifiedError(fmt.Errorf("failed to acquire semaphore: %w", err))
	}
	defer o.semaphore.Release(1)

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	respBody, status, err := httpmiddleware.HttpRequest(ctx, httpmiddleware.HttpRequestStruct{
		Method: "POST",
		Url:    o.url,
		Body:   bytes.NewBuffer(jsonData),
		Headers: map[string]string{
			"authorization": "Bearer " + o.apiKey,
			"content-type":  "application/json",
		},
	})

	if err != nil {
		span.RecordError(err)
		o.logger.Logger(ctx).Error("[OpenRouter-API] Request failed", zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) {
			return "", modelapi.NewTimeoutError(err)
		}
		return "", modelapi.NewNetworkError(err)
	}

	if classified := classifyStatus(status, respBody); classified != nil {
		span.RecordError(classified)
		o.logger.Logger(ctx).Error(
			"[OpenRouter-API] Provider returned an error",
			zap.Int("status", status),
			zap.String("response_body", string(respBody)),
		)
		return "", classified
	}

	var messageResponse chatResponse
	if err := json.Unmarshal(respBody, &messageResponse); err != nil {
		span.RecordError(err)
		o.logger.Logger(ctx).Error(
			"[OpenRouter-API] Could not parse provider response",
			zap.Error(err),
			zap.String("response_body", string(respBody)),
		)
		return "", modelapi.NewUnclassifiedError(fmt.Errorf("malformed provider response: %w", err))
	}

	if len(messageResponse.Choices) == 0 || messageResponse.Choices[0].Message.Content == "" {
		// An empty model reply is not a hard failure.
		span.AddEvent("Empty reply, substituting fallback")
		o.logger.Logger(ctx).Warn("[OpenRouter-API] Empty reply from provider, using fallback line")
		return modelapi.EMPTY_REPLY_FALLBACK, nil
	}

	span.AddEvent("Request successful")
	return messageResponse.Choices[0].Message.Content, nil
}

func classifyStatus(status int, body []byte) *modelapi.ProviderError {
	if status >= 200 && status < 300 {
		return nil
	}

	cause := fmt.Errorf("provider status %d: %s", status, string(body))
	lower := strings.ToLower(string(body))

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return modelapi.NewAuthenticationError(cause)
	case status == http.StatusTooManyRequests || strings.Contains(lower, "quota"):
		return modelapi.NewQuotaError(cause)
	default:
		return modelapi.NewUnclassifiedError(cause)
	}
}
