package deepgramapi

import (
	"bytes"
	"context"
	"fmt"

	"monbondhu/logger"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/pkg/client/listen"
	"go.uber.org/zap"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type DeepgramAPI struct {
	logger *logger.LogMiddleware
	dg     *api.Client
}

func Connect(logger *logger.LogMiddleware) *DeepgramAPI {
	c := client.NewRESTWithDefaults()
	dg := api.New(c)

	return &DeepgramAPI{logger: logger, dg: dg}
}

// Transcribe turns a voice note into text for the chat pipeline. The
// language is left on "multi" since users switch between Bengali and
// English mid-message.
func (d *DeepgramAPI) Transcribe(ctx context.Context, audioData []byte) (string, error) {
	tracer := otel.Tracer("deepgramapi/Transcribe")
	ctx, span := tracer.Start(ctx, "Transcribe")
	defer span.End()

	span.SetAttributes(attribute.Int("audio.data.size", len(audioData)))

	logger := d.logger.Logger(ctx)

	if len(audioData) == 0 {
		return "", fmt.Errorf("no audio data to transcribe")
	}

	options := &interfaces.PreRecordedTranscriptionOptions{
		Punctuate:  true,
		Diarize:    false,
		Language:   "multi",
		Utterances: true,
		Model:      "nova-3",
	}

	span.AddEvent("Calling Deepgram API")
	res, err := d.dg.FromStream(ctx, bytes.NewReader(audioData), options)
	if err != nil {
		logger.Error("[Deepgram-API] Transcription failed", zap.Error(err))
		span.RecordError(err)
		return "", fmt.Errorf("deepgram transcription failed: %w", err)
	}

	if res != nil && res.Results != nil && len(res.Results.Channels) > 0 {
		channel := res.Results.Channels[0]
		if len(channel.Alternatives) > 0 {
			transcription := channel.Alternatives[0].Transcript
			logger.Info("[Deepgram-API] Transcribed voice message",
				zap.Int("transcription_length", len(transcription)))
			span.AddEvent("Transcription successful",
				trace.WithAttributes(attribute.Int("transcription.length", len(transcription))))
			return transcription, nil
		}
	}

	logger.Warn("[Deepgram-API] No transcription found in response")
	span.AddEvent("No transcription found in Deepgram response")
	return "", fmt.Errorf("no transcription found in response")
}
