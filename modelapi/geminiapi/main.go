package geminiapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"monbondhu/conversation"
	"monbondhu/logger"
	"monbondhu/modelapi"

	"github.com/google/generative-ai-go/genai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	GEMINI_MODEL_NAME = "gemini-2.5-flash"
	requestTimeout    = 30 * time.Second
)

type GeminiConnectProps struct {
	Logger *logger.LogMiddleware
}

type Gemini struct {
	logger    *logger.LogMiddleware
	semaphore *semaphore.Weighted
	client    *genai.Client
	apiKey    string
}

func Connect(ctx context.Context, args GeminiConnectProps) *Gemini {
	tracer := otel.Tracer("geminiapi/Connect")
	ctx, span := tracer.Start(ctx, "Connect")
	defer span.End()
	args.Logger.Logger(ctx).Info("[GeminiAPI] Connecting Gemini API client")

	maxWorkers := 10
	sem := semaphore.NewWeighted(int64(maxWorkers))
	span.SetAttributes(attribute.Int("maxWorkers", maxWorkers))

	apiKey := os.Getenv("GEMINI_SECRET_KEY")

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		args.Logger.Logger(ctx).Error("[GeminiAPI] Could not create Gemini client", zap.Error(err))
		os.Exit(21)
	}

	return &Gemini{logger: args.Logger, semaphore: sem, client: client, apiKey: apiKey}
}

// Complete runs the assembled request through a Gemini chat session. Same
// single-attempt contract and error taxonomy as the OpenRouter gateway.
func (g *Gemini) Complete(ctx context.Context, request *conversation.CompletionRequest) (string, error) {
	tracer := otel.Tracer("geminiapi/Complete")
	ctx, span := tracer.Start(ctx, "Complete")
	defer span.End()

	span.SetAttributes(
		attribute.String("request.model", GEMINI_MODEL_NAME),
		attribute.Int("request.messages", len(request.Messages)),
	)

	if strings.TrimSpace(g.apiKey) == "" {
		err := modelapi.NewConfigurationError()
		span.RecordError(err)
		g.logger.Logger(ctx).Error("[GeminiAPI] API key missing")
		return "", err
	}

	if err := g.semaphore.Acquire(ctx, 1); err != nil {
		span.RecordError(err)
		return "", modelapi.NewUnclassifiedError(fmt.Errorf("failed to acquire semaphore: %w", err))
	}
	defer g.semaphore.Release(1)

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	model := g.client.GenerativeModel(GEMINI_MODEL_NAME)
	model.SetTemperature(float32(request.Temperature))
	model.SetTopP(float32(request.TopP))
	model.SetMaxOutputTokens(int32(request.MaxTokens))
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
	}

	system, history, last := splitRequest(request)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	session := model.StartChat()
	session.History = history

	resp, err := session.SendMessage(ctx, genai.Text(last))
	if err != nil {
		span.RecordError(err)
		g.logger.Logger(ctx).Error("[GeminiAPI] Generation failed", zap.Error(err))
		return "", classify(err)
	}

	reply := extractText(resp)
	if reply == "" {
		span.AddEvent("Empty reply, substituting fallback")
		g.logger.Logger(ctx).Warn("[GeminiAPI] Empty reply from provider, using fallback line")
		return modelapi.EMPTY_REPLY_FALLBACK, nil
	}

	span.AddEvent("Request successful")
	return reply, nil
}

// splitRequest maps the provider-neutral request onto Gemini's shape: the
// system block becomes the system instruction, the trailing user block is
// sent as the new message, everything in between becomes chat history.
func splitRequest(request *conversation.CompletionRequest) (string, []*genai.Content, string) {
	var system, last string
	var history []*genai.Content

	messages := request.Messages
	if len(messages) > 0 && messages[0].Role == conversation.RoleSystem {
		system = messages[0].Content
		messages = messages[1:]
	}
	if len(messages) > 0 {
		last = messages[len(messages)-1].Content
		messages = messages[:len(messages)-1]
	}
	for _, m := range messages {
		role := "model"
		if m.Role == conversation.RoleUser {
			role = "user"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	return system, history, last
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

func classify(err error) *modelapi.ProviderError {
	if errors.Is(err, context.DeadlineExceeded) {
		return modelapi.NewTimeoutError(err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return modelapi.NewAuthenticationError(err)
		case apiErr.Code == http.StatusTooManyRequests || strings.Contains(strings.ToLower(apiErr.Message), "quota"):
			return modelapi.NewQuotaError(err)
		default:
			return modelapi.NewUnclassifiedError(err)
		}
	}

	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "dial") || strings.Contains(lower, "connection") || strings.Contains(lower, "dns") || strings.Contains(lower, "tls") {
		return modelapi.NewNetworkError(err)
	}
	return modelapi.NewUnclassifiedError(err)
}
