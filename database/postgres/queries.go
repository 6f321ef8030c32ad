package postgres

import (
	"context"
	"database/sql"
	"time"
)

type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

type BotProfileRow struct {
	ID                string
	UserID            string
	Name              string
	Gender            string
	Role              string
	Tone              string
	Backstory         sql.NullString
	SpecificTreatment sql.NullString
	Addressing        sql.NullString
	CanUseTui         bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type ChatMessageRow struct {
	ID           string
	UserID       string
	BotProfileID string
	Sender       string
	Message      string
	Seq          int64
	CreatedAt    time.Time
}

const botProfileColumns = `id, user_id, name, gender, role, tone, backstory, specific_treatment, addressing, can_use_tui, created_at, updated_at`

func scanBotProfile(row *sql.Row) (BotProfileRow, error) {
	var p BotProfileRow
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Gender, &p.Role, &p.Tone,
		&p.Backstory, &p.SpecificTreatment, &p.Addressing, &p.CanUseTui,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

type AddBotProfileParams struct {
	UserID            string
	Name              string
	Gender            string
	Role              string
	Tone              string
	Backstory         sql.NullString
	SpecificTreatment sql.NullString
	Addressing        sql.NullString
	CanUseTui         bool
}

func (q *Queries) AddBotProfile(ctx context.Context, args AddBotProfileParams) (BotProfileRow, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO bot_profiles (user_id, name, gender, role, tone, backstory, specific_treatment, addressing, can_use_tui)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+botProfileColumns,
		args.UserID, args.Name, args.Gender, args.Role, args.Tone,
		args.Backstory, args.SpecificTreatment, args.Addressing, args.CanUseTui)
	return scanBotProfile(row)
}

func (q *Queries) GetBotProfile(ctx context.Context, userID, profileID string) (BotProfileRow, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+botProfileColumns+` FROM bot_profiles
		WHERE user_id = $1 AND id = $2`, userID, profileID)
	return scanBotProfile(row)
}

func (q *Queries) ListBotProfiles(ctx context.Context, userID string) ([]BotProfileRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+botProfileColumns+` FROM bot_profiles
		WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []BotProfileRow
	for rows.Next() {
		var p BotProfileRow
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Gender, &p.Role, &p.Tone,
			&p.Backstory, &p.SpecificTreatment, &p.Addressing, &p.CanUseTui,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

type UpdateBotProfileParams struct {
	UserID            string
	ID                string
	Name              string
	Gender            string
	Role              string
	Tone              string
	Backstory         sql.NullString
	SpecificTreatment sql.NullString
	Addressing        sql.NullString
	CanUseTui         bool
}

func (q *Queries) UpdateBotProfile(ctx context.Context, args UpdateBotProfileParams) (BotProfileRow, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE bot_profiles
		SET name = $3, gender = $4, role = $5, tone = $6, backstory = $7,
		    specific_treatment = $8, addressing = $9, can_use_tui = $10, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+botProfileColumns,
		args.UserID, args.ID, args.Name, args.Gender, args.Role, args.Tone,
		args.Backstory, args.SpecificTreatment, args.Addressing, args.CanUseTui)
	return scanBotProfile(row)
}

func (q *Queries) DeleteBotProfile(ctx context.Context, userID, profileID string) error {
	_, err := q.db.ExecContext(ctx, `
		DELETE FROM bot_profiles WHERE user_id = $1 AND id = $2`, userID, profileID)
	return err
}

type GetRecentMessagesParams struct {
	UserID       string
	BotProfileID string
	Limit        int
}

// GetRecentMessages returns the newest messages first; callers reverse into
// ascending sequence order.
func (q *Queries) GetRecentMessages(ctx context.Context, args GetRecentMessagesParams) ([]ChatMessageRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, user_id, bot_profile_id, sender, message, seq, created_at
		FROM chat_messages
		WHERE user_id = $1 AND bot_profile_id = $2
		ORDER BY seq DESC
		LIMIT $3`, args.UserID, args.BotProfileID, args.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []ChatMessageRow
	for rows.Next() {
		var m ChatMessageRow
		if err := rows.Scan(&m.ID, &m.UserID, &m.BotProfileID, &m.Sender, &m.Message, &m.Seq, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

type AddMessageParams struct {
	UserID       string
	BotProfileID string
	Sender       string
	Message      string
}

// AddMessage assigns the next per-conversation sequence number inside the
// insert itself, so ordering never depends on wall-clock time.
func (q *Queries) AddMessage(ctx context.Context, args AddMessageParams) (ChatMessageRow, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO chat_messages (user_id, bot_profile_id, sender, message, seq)
		SELECT $1, $2, $3, $4, COALESCE(MAX(seq), 0) + 1
		FROM chat_messages
		WHERE user_id = $1 AND bot_profile_id = $2
		RETURNING id, user_id, bot_profile_id, sender, message, seq, created_at`,
		args.UserID, args.BotProfileID, args.Sender, args.Message)

	var m ChatMessageRow
	err := row.Scan(&m.ID, &m.UserID, &m.BotProfileID, &m.Sender, &m.Message, &m.Seq, &m.CreatedAt)
	return m, err
}

func (q *Queries) DeleteMessages(ctx context.Context, userID, profileID string) error {
	_, err := q.db.ExecContext(ctx, `
		DELETE FROM chat_messages WHERE user_id = $1 AND bot_profile_id = $2`, userID, profileID)
	return err
}
