package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/m-waqas88/messenger/internal/domain"
)

var _ domain.MessageRepository = (*MessageRepository)(nil)

type MessageRepository struct {
	db *DB
}

func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db}
}

// GetAllForParticipant loads the full message history of every conversation
// the user participates in, ordered ascending by creation time.
func (r *MessageRepository) GetAllForParticipant(ctx context.Context, usrID string) ([]*domain.Message, error) {
	query := `
		SELECT m.*
		FROM message m
		    INNER JOIN conversation_user cu ON cu.conversation_id = m.conversation_id
		WHERE cu.user_id = $1
		ORDER BY m.created_at, m.id
		`
	var rows *sqlx.Rows
	var err error
	if tx := contextGetTX(ctx); tx != nil {
		rows, err = tx.QueryxContext(ctx, query, usrID)
	} else {
		rows, err = r.db.QueryxContext(ctx, query, usrID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	messages := make([]*domain.Message, 0)
	for rows.Next() {
		var m domain.Message
		if err = rows.StructScan(&m); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *MessageRepository) InsertMessage(ctx context.Context, m *domain.Message) error {
	query := `
		INSERT INTO message (conversation_id, sender_id, body) 
		VALUES ($1, $2, $3)
		RETURNING id, read, created_at
		`
	args := []any{m.ConversationID, m.SenderID, m.Body}
	if tx := contextGetTX(ctx); tx != nil {
		return tx.QueryRowContext(ctx, query, args...).Scan(&m.ID, &m.Read, &m.CreatedAt)
	}
	return r.db.QueryRowContext(ctx, query, args...).Scan(&m.ID, &m.Read, &m.CreatedAt)
}

// MarkMessagesRead flips read on every message in the conversation up to and
// including lastReadMessageID that the requester did not send. A single
// statement, so concurrent receipts for the same conversation cannot race.
func (r *MessageRepository) MarkMessagesRead(
	ctx context.Context,
	conversationID, lastReadMessageID int64,
	requesterID string,
) (int64, error) {
	query := `
		UPDATE message
		SET read = TRUE
		WHERE conversation_id = $1 AND id <= $2 AND sender_id <> $3 AND NOT read
		`
	args := []any{conversationID, lastReadMessageID, requesterID}
	var result sql.Result
	var err error
	if tx := contextGetTX(ctx); tx != nil {
		result, err = tx.ExecContext(ctx, query, args...)
	} else {
		result, err = r.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
