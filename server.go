package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"monbondhu/api"
	"monbondhu/chat"
	"monbondhu/database/postgres"
	"monbondhu/logger"
	"monbondhu/modelapi/deepgramapi"
	"monbondhu/modelapi/geminiapi"
	"monbondhu/modelapi/openrouterapi"
	"monbondhu/telegram"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/hyperdxio/opentelemetry-logs-go/exporters/otlp/otlplogs"
	sdk "github.com/hyperdxio/opentelemetry-logs-go/sdk/logs"
	"github.com/hyperdxio/otel-config-go/otelconfig"
)

const defaultPort = "80"

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	godotenv.Load()
	production := os.Getenv("PRODUCTION") != ""

	otelShutdown, err := otelconfig.ConfigureOpenTelemetry()
	if err != nil {
		log.Fatalf("Error setting up OTel SDK - %e", err)
	}
	defer otelShutdown()
	ctx := context.Background()

	logExporter, _ := otlplogs.NewExporter(ctx)
	loggerProvider := sdk.NewLoggerProvider(sdk.WithBatcher(logExporter))
	defer loggerProvider.Shutdown(ctx)

	LogMiddleware := logger.Connect(logger.LoggerConnectProps{Production: production, LoggerProvider: loggerProvider})

	db := postgres.Connect(ctx, postgres.DatabaseConnectProps{Logger: LogMiddleware})

	// OpenRouter is the default provider; Gemini stays available behind a flag.
	var completer chat.Completer
	if os.Getenv("MODEL_PROVIDER") == "gemini" {
		completer = geminiapi.Connect(ctx, geminiapi.GeminiConnectProps{Logger: LogMiddleware})
	} else {
		completer = openrouterapi.Connect(ctx, openrouterapi.OpenRouterConnectProps{Logger: LogMiddleware})
	}

	chatService := chat.Connect(ctx, chat.ChatConnectProps{
		Logger:    LogMiddleware,
		Completer: completer,
		Store:     db,
	})

	Logger := LogMiddleware.Logger(ctx)

	if production == false {
		Logger.Info("[Server] Starting in development mode")
	} else {
		Logger.Info("[Server] Starting in production mode")
	}

	// Telegram channel is optional; the HTTP API runs either way.
	if os.Getenv("TELEGRAM_BOT_TOKEN") != "" {
		deepgramClient := deepgramapi.Connect(LogMiddleware)
		telegramBot := telegram.Connect(ctx, telegram.TelegramConnectProps{
			Logger:   LogMiddleware,
			Chat:     chatService,
			DB:       db,
			Deepgram: deepgramClient,
		})
		go telegramBot.Listen(ctx)
	}

	apiServer := api.Connect(api.ApiConnectProps{Logger: LogMiddleware, Chat: chatService, DB: db})
	handler := otelhttp.NewHandler(apiServer.Router(), "api")

	Logger.Info("[Server] Listening", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		Logger.Fatal("[Server] HTTP server stopped", zap.Error(err))
	}
}
