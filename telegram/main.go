package telegram

import (
	"context"
	"errors"
	"fmt"
	"os"

	"monbondhu/chat"
	"monbondhu/database/postgres"
	"monbondhu/httpmiddleware"
	"monbondhu/logger"
	"monbondhu/modelapi"
	"monbondhu/modelapi/deepgramapi"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type TelegramConnectProps struct {
	Logger   *logger.LogMiddleware
	Chat     *chat.Service
	DB       *postgres.Database
	Deepgram *deepgramapi.DeepgramAPI
}

type Telegram struct {
	logger   *logger.LogMiddleware
	bot      *tgbotapi.BotAPI
	chat     *chat.Service
	db       *postgres.Database
	deepgram *deepgramapi.DeepgramAPI
}

func Connect(ctx context.Context, args TelegramConnectProps) *Telegram {
	tracer := otel.Tracer("telegram/Connect")
	ctx, span := tracer.Start(ctx, "Connect")
	defer span.End()

	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		args.Logger.Logger(ctx).Fatal("TELEGRAM_BOT_TOKEN environment variable not set")
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		args.Logger.Logger(ctx).Fatal("Failed to create Telegram bot", zap.Error(err))
	}

	debug := os.Getenv("TELEGRAM_DEBUG") == "true"
	bot.Debug = debug

	span.SetAttributes(
		attribute.String("bot.username", bot.Self.UserName),
		attribute.Bool("bot.debug", debug),
	)

	args.Logger.Logger(ctx).Info("Telegram bot connected successfully",
		zap.String("username", bot.Self.UserName),
		zap.Bool("debug", debug),
	)

	return &Telegram{
		logger:   args.Logger,
		bot:      bot,
		chat:     args.Chat,
		db:       args.DB,
		deepgram: args.Deepgram,
	}
}

func (t *Telegram) Listen(ctx context.Context) {
	tracer := otel.Tracer("telegram/Listen")
	ctx, span := tracer.Start(ctx, "Listen")
	defer span.End()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)

	t.logger.Logger(ctx).Info("Starting Telegram bot message listener")

	for {
		select {
		case <-ctx.Done():
			t.logger.Logger(ctx).Info("Shutting down Telegram bot listener")
			return
		case update := <-updates:
			if update.Message != nil {
				t.handleMessage(ctx, update.Message)
			}
		}
	}
}

func (t *Telegram) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	tracer := otel.Tracer("telegram/handleMessage")
	ctx, span := tracer.Start(ctx, "handleMessage")
	defer span.End()

	if message.From == nil {
		return
	}

	user := message.From
	span.SetAttributes(
		attribute.Int64("user.id", user.ID),
		attribute.String("user.username", user.UserName),
	)

	text := message.Text
	if message.Voice != nil {
		transcribed, err := t.transcribeVoice(ctx, message.Voice.FileID)
		if err != nil {
			t.logger.Logger(ctx).Error("Failed to transcribe voice message", zap.Error(err))
			t.send(ctx, message.Chat.ID, "I couldn't make out that voice message. Could you type it instead?")
			return
		}
		text = transcribed
	}

	if text == "" {
		return
	}

	t.logger.Logger(ctx).Info("Received message",
		zap.Int64("user_id", user.ID),
		zap.Bool("voice", message.Voice != nil),
	)

	userID := fmt.Sprintf("telegram:%d", user.ID)
	profile, err := t.db.GetOrCreateDefaultProfile(ctx, userID)
	if err != nil {
		t.logger.Logger(ctx).Error("Failed to load default profile", zap.Error(err))
		t.send(ctx, message.Chat.ID, "Something went wrong on my side. Please try again.")
		return
	}

	result, err := t.chat.SendMessage(ctx, userID, profile, text)
	if err != nil {
		t.logger.Logger(ctx).Error("Failed to generate response", zap.Error(err))

		var pe *modelapi.ProviderError
		if errors.As(err, &pe) {
			t.send(ctx, message.Chat.ID, pe.UserMessage)
		} else {
			t.send(ctx, message.Chat.ID, "Something went wrong on my side. Please try again.")
		}
		return
	}

	t.send(ctx, message.Chat.ID, result.Reply)
}

func (t *Telegram) transcribeVoice(ctx context.Context, fileID string) (string, error) {
	tracer := otel.Tracer("telegram/transcribeVoice")
	ctx, span := tracer.Start(ctx, "transcribeVoice")
	defer span.End()

	fileURL, err := t.bot.GetFileDirectURL(fileID)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("could not resolve voice file url: %w", err)
	}

	audio, status, err := httpmiddleware.HttpRequest(ctx, httpmiddleware.HttpRequestStruct{
		Method: "GET",
		Url:    fileURL,
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("could not download voice file: %w", err)
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("could not download voice file: status %d", status)
	}

	return t.deepgram.Transcribe(ctx, audio)
}

func (t *Telegram) send(ctx context.Context, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Logger(ctx).Error("Failed to send response", zap.Error(err))
	}
}
