package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"monbondhu/conversation"
	"monbondhu/logger"
	"monbondhu/persona"

	_ "github.com/lib/pq"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

type DatabaseConnectProps struct {
	Logger *logger.LogMiddleware
}

type Database struct {
	Queries
	logger *logger.LogMiddleware
}

func Connect(ctx context.Context, args DatabaseConnectProps) *Database {
	tracer := otel.Tracer("postgres/Connect")
	ctx, span := tracer.Start(ctx, "Connect")
	defer span.End()

	connectRetries := 5
	var conn *sql.DB
	var err error
	var connStr string

	logger := args.Logger.Logger(ctx)

	for connectRetries > 0 {
		conn, err, connStr = getConnection(ctx)
		if err == nil {
			logger.Info("[Postgres] Database client started")
			break
		}
		connectRetries -= 1
		sleepTime := 5
		logger.Error(
			"[Postgres] Could not connect to Postgres. Retrying after sleeping.",
			zap.Error(err),
			zap.Int("Retries Left", connectRetries),
			zap.Int("Sleep Time", sleepTime),
			zap.String("Connection String", connStr))
		time.Sleep(time.Second * time.Duration(sleepTime))
	}

	if connectRetries <= 0 {
		logger.Error("[Postgres] Failed to Connect to Postgres")
		span.RecordError(fmt.Errorf("failed to connect to Postgres"))
		os.Exit(1)
	}

	queries := New(conn)
	return &Database{Queries: *queries, logger: args.Logger}
}

func getConnection(ctx context.Context) (*sql.DB, error, string) {
	tracer := otel.Tracer("postgres/getConnection")
	_, span := tracer.Start(ctx, "getConnection")
	defer span.End()

	host := os.Getenv("POSTGRES_DB_HOST")
	port := os.Getenv("POSTGRES_DB_PORT")
	user := os.Getenv("POSTGRES_DB_USER")
	password := os.Getenv("POSTGRES_DB_PASS")
	dbname := os.Getenv("POSTGRES_DB_NAME")

	sslMode := "disable"

	postgresqlDbInfo := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslMode,
	)

	db, err := sql.Open("postgres", postgresqlDbInfo)
	if err != nil {
		span.RecordError(err)
		return nil, err, postgresqlDbInfo
	}
	err = db.Ping()
	if err != nil {
		span.RecordError(err)
		return nil, err, postgresqlDbInfo
	}

	return db, nil, ""
}

// ErrProfileNotFound reports a profile lookup miss distinct from other
// database failures.
var ErrProfileNotFound = errors.New("bot profile not found")

func profileFromRow(row BotProfileRow) persona.BotProfile {
	return persona.BotProfile{
		ID:                row.ID,
		Name:              row.Name,
		Gender:            persona.Gender(row.Gender),
		Role:              persona.Role(row.Role),
		Tone:              persona.Tone(row.Tone),
		Backstory:         row.Backstory.String,
		SpecificTreatment: row.SpecificTreatment.String,
		Addressing:        persona.Addressing(row.Addressing.String),
		CanUseTui:         row.CanUseTui,
	}
}

func nullable(s string) sql.NullString {
	return sql.NullString{Valid: s != "", String: s}
}

func (d *Database) CreateProfile(ctx context.Context, userID string, p persona.BotProfile) (persona.BotProfile, error) {
	tracer := otel.Tracer("postgres/CreateProfile")
	ctx, span := tracer.Start(ctx, "CreateProfile")
	defer span.End()

	row, err := d.Queries.AddBotProfile(ctx, AddBotProfileParams{
		UserID:            userID,
		Name:              p.Name,
		Gender:            string(p.Gender),
		Role:              string(p.Role),
		Tone:              string(p.Tone),
		Backstory:         nullable(p.Backstory),
		SpecificTreatment: nullable(p.SpecificTreatment),
		Addressing:        nullable(string(p.Addressing)),
		CanUseTui:         p.CanUseTui,
	})
	if err != nil {
		d.logger.Logger(ctx).Error("[Postgres] Could not create bot profile",
			zap.Error(err), zap.String("user_id", userID))
		span.RecordError(err)
		return persona.BotProfile{}, fmt.Errorf("could not create bot profile: %w", err)
	}
	return profileFromRow(row), nil
}

func (d *Database) GetProfile(ctx context.Context, userID, profileID string) (persona.BotProfile, error) {
	tracer := otel.Tracer("postgres/GetProfile")
	ctx, span := tracer.Start(ctx, "GetProfile")
	defer span.End()

	row, err := d.Queries.GetBotProfile(ctx, userID, profileID)
	if errors.Is(err, sql.ErrNoRows) {
		return persona.BotProfile{}, ErrProfileNotFound
	}
	if err != nil {
		span.RecordError(err)
		return persona.BotProfile{}, fmt.Errorf("could not load bot profile: %w", err)
	}
	return profileFromRow(row), nil
}

func (d *Database) ListProfiles(ctx context.Context, userID string) ([]persona.BotProfile, error) {
	tracer := otel.Tracer("postgres/ListProfiles")
	ctx, span := tracer.Start(ctx, "ListProfiles")
	defer span.End()

	rows, err := d.Queries.ListBotProfiles(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("could not list bot profiles: %w", err)
	}

	profiles := make([]persona.BotProfile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, profileFromRow(row))
	}
	return profiles, nil
}

func (d *Database) UpdateProfile(ctx context.Context, userID string, p persona.BotProfile) (persona.BotProfile, error) {
	tracer := otel.Tracer("postgres/UpdateProfile")
	ctx, span := tracer.Start(ctx, "UpdateProfile")
	defer span.End()

	row, err := d.Queries.UpdateBotProfile(ctx, UpdateBotProfileParams{
		UserID:            userID,
		ID:                p.ID,
		Name:              p.Name,
		Gender:            string(p.Gender),
		Role:              string(p.Role),
		Tone:              string(p.Tone),
		Backstory:         nullable(p.Backstory),
		SpecificTreatment: nullable(p.SpecificTreatment),
		Addressing:        nullable(string(p.Addressing)),
		CanUseTui:         p.CanUseTui,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return persona.BotProfile{}, ErrProfileNotFound
	}
	if err != nil {
		span.RecordError(err)
		return persona.BotProfile{}, fmt.Errorf("could not update bot profile: %w", err)
	}
	return profileFromRow(row), nil
}

func (d *Database) DeleteProfile(ctx context.Context, userID, profileID string) error {
	tracer := otel.Tracer("postgres/DeleteProfile")
	ctx, span := tracer.Start(ctx, "DeleteProfile")
	defer span.End()

	if err := d.Queries.DeleteBotProfile(ctx, userID, profileID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("could not delete bot profile: %w", err)
	}
	if err := d.Queries.DeleteMessages(ctx, userID, profileID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("could not delete profile messages: %w", err)
	}
	return nil
}

// GetOrCreateDefaultProfile backs channels without a profile picker, like
// the Telegram bot: each user gets their first profile, created on demand.
func (d *Database) GetOrCreateDefaultProfile(ctx context.Context, userID string) (persona.BotProfile, error) {
	tracer := otel.Tracer("postgres/GetOrCreateDefaultProfile")
	ctx, span := tracer.Start(ctx, "GetOrCreateDefaultProfile")
	defer span.End()

	profiles, err := d.ListProfiles(ctx, userID)
	if err != nil {
		return persona.BotProfile{}, err
	}
	if len(profiles) > 0 {
		return profiles[len(profiles)-1], nil
	}

	return d.CreateProfile(ctx, userID, persona.BotProfile{
		Name:   "Mitra",
		Gender: persona.Female,
		Role:   persona.Friend,
		Tone:   persona.Empathetic,
	})
}

// RecentMessages implements the chat history collaborator: the most recent
// utterances of a conversation in ascending sequence order.
func (d *Database) RecentMessages(ctx context.Context, userID, profileID string, limit int) ([]conversation.Utterance, error) {
	tracer := otel.Tracer("postgres/RecentMessages")
	ctx, span := tracer.Start(ctx, "RecentMessages")
	defer span.End()

	rows, err := d.Queries.GetRecentMessages(ctx, GetRecentMessagesParams{
		UserID:       userID,
		BotProfileID: profileID,
		Limit:        limit,
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("could not load recent messages: %w", err)
	}

	// Newest-first from the query; flip into conversation order.
	utterances := make([]conversation.Utterance, len(rows))
	for i, row := range rows {
		utterances[len(rows)-1-i] = conversation.Utterance{
			Sender: row.Sender,
			Text:   row.Message,
			Seq:    row.Seq,
		}
	}
	return utterances, nil
}

func (d *Database) AppendMessage(ctx context.Context, userID, profileID, sender, text string) (conversation.Utterance, error) {
	tracer := otel.Tracer("postgres/AppendMessage")
	ctx, span := tracer.Start(ctx, "AppendMessage")
	defer span.End()

	row, err := d.Queries.AddMessage(ctx, AddMessageParams{
		UserID:       userID,
		BotProfileID: profileID,
		Sender:       sender,
		Message:      text,
	})
	if err != nil {
		d.logger.Logger(ctx).Error("[Postgres] Could not append message",
			zap.Error(err), zap.String("user_id", userID), zap.String("bot_profile_id", profileID))
		span.RecordError(err)
		return conversation.Utterance{}, fmt.Errorf("could not append message: %w", err)
	}
	return conversation.Utterance{Sender: row.Sender, Text: row.Message, Seq: row.Seq}, nil
}
