package chat

import (
	"context"
	"fmt"
	"strings"

	"monbondhu/conversation"
	"monbondhu/langdetect"
	"monbondhu/logger"
	"monbondhu/persona"
	"monbondhu/prompt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Completer is the completion gateway collaborator: one outbound provider
// call per invocation, classified errors only.
type Completer interface {
	Complete(ctx context.Context, request *conversation.CompletionRequest) (string, error)
}

// MessageStore is the history collaborator: read a recent window, append one
// utterance. Persistence details (Postgres, session, anything else) stay
// behind this interface.
type MessageStore interface {
	RecentMessages(ctx context.Context, userID, profileID string, limit int) ([]conversation.Utterance, error)
	AppendMessage(ctx context.Context, userID, profileID, sender, text string) (conversation.Utterance, error)
}

// TurnResult is one completed turn: the reply plus the advisory language
// check.
type TurnResult struct {
	Reply           string              `json:"reply"`
	Language        langdetect.Language `json:"language"`
	ReplyLanguage   langdetect.Language `json:"replyLanguage"`
	LanguageMatched bool                `json:"languageMatched"`
}

type ChatConnectProps struct {
	Logger    *logger.LogMiddleware
	Completer Completer
	Store     MessageStore
	Detector  *langdetect.Detector
}

// Service runs the per-turn pipeline: detect language, build the persona
// prompt, assemble the bounded context, call the gateway, validate the
// reply's language.
type Service struct {
	logger    *logger.LogMiddleware
	completer Completer
	store     MessageStore
	detector  *langdetect.Detector
}

func Connect(ctx context.Context, args ChatConnectProps) *Service {
	tracer := otel.Tracer("chat/Connect")
	_, span := tracer.Start(ctx, "Connect")
	defer span.End()

	detector := args.Detector
	if detector == nil {
		detector = langdetect.DefaultDetector()
	}

	return &Service{
		logger:    args.Logger,
		completer: args.Completer,
		store:     args.Store,
		detector:  detector,
	}
}

// GenerateReply runs one stateless turn over caller-supplied history. The
// history slice is treated as a value and never mutated.
func (s *Service) GenerateReply(ctx context.Context, profile persona.BotProfile, history []conversation.Utterance, text string) (*TurnResult, error) {
	tracer := otel.Tracer("chat/GenerateReply")
	ctx, span := tracer.Start(ctx, "GenerateReply")
	defer span.End()

	label := s.detector.Detect(text)
	span.SetAttributes(
		attribute.String("turn.language", string(label)),
		attribute.Int("turn.history_length", len(history)),
	)

	systemPrompt := prompt.BuildSystemPrompt(profile, label)

	request, err := conversation.AssembleRequest(systemPrompt, history, text)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	reply, err := s.completer.Complete(ctx, request)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	outcome := s.detector.Validate(label, reply)
	if !outcome.Matched {
		// Advisory only: log the drift, never block delivery.
		span.AddEvent("Language mismatch")
		s.logger.Logger(ctx).Warn("[Chat] Reply language does not match input language",
			zap.String("expected", string(label)),
			zap.String("got", string(outcome.ReplyLanguage)),
		)
	}

	return &TurnResult{
		Reply:           reply,
		Language:        label,
		ReplyLanguage:   outcome.ReplyLanguage,
		LanguageMatched: outcome.Matched,
	}, nil
}

// SendMessage runs one persisted turn: recent history comes from the store,
// and the user/bot utterance pair is appended only after the completion
// succeeds, so a cancelled or failed turn leaves no partial state.
func (s *Service) SendMessage(ctx context.Context, userID string, profile persona.BotProfile, text string) (*TurnResult, error) {
	tracer := otel.Tracer("chat/SendMessage")
	ctx, span := tracer.Start(ctx, "SendMessage")
	defer span.End()

	history, err := s.store.RecentMessages(ctx, userID, profile.ID, conversation.HistoryWindow)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("could not load recent messages: %w", err)
	}

	result, err := s.GenerateReply(ctx, profile, history, text)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.AppendMessage(ctx, userID, profile.ID, conversation.SenderUser, strings.TrimSpace(text)); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("could not persist user message: %w", err)
	}
	if _, err := s.store.AppendMessage(ctx, userID, profile.ID, conversation.SenderBot, result.Reply); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("could not persist reply: %w", err)
	}

	return result, nil
}
