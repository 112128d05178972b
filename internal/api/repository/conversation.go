package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/m-waqas88/messenger/internal/domain"
)

var _ domain.ConversationRepository = (*ConversationRepository)(nil)

type ConversationRepository struct {
	db *DB
}

func NewConversationRepository(db *DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// GetConversations lists every conversation the user participates in, each
// row carrying the other participant's projection.
func (r *ConversationRepository) GetConversations(ctx context.Context, usrID string) ([]*domain.Conversation, error) {
	query := `
		SELECT c.id, c.created_at,
		       u.id        AS other_user_id,
		       u.username  AS other_username,
		       u.photo_url AS other_photo_url
		FROM conversation c
		    INNER JOIN conversation_user me ON me.conversation_id = c.id AND me.user_id = $1
		    INNER JOIN conversation_user them ON them.conversation_id = c.id AND them.user_id <> $1
		    INNER JOIN users u ON u.id = them.user_id
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
	conversations := make([]*domain.Conversation, 0)
	for rows.Next() {
		var c domain.Conversation
		if err = rows.StructScan(&c); err != nil {
			return nil, err
		}
		conversations = append(conversations, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *ConversationRepository) GetParticipants(ctx context.Context, conversationID int64) ([]string, error) {
	query := `
		SELECT user_id FROM conversation_user 
        WHERE conversation_id = $1
        `
	var participants []string
	var err error
	if tx := contextGetTX(ctx); tx != nil {
		err = tx.SelectContext(ctx, &participants, query, conversationID)
	} else {
		err = r.db.SelectContext(ctx, &participants, query, conversationID)
	}
	return participants, err
}

// FindConversation resolves the pair conversation between two users
// regardless of ordering, ErrRecordNotFound when they never talked.
func (r *ConversationRepository) FindConversation(ctx context.Context, userA, userB string) (int64, error) {
	query := `
		SELECT a.conversation_id
		FROM conversation_user a
		    INNER JOIN conversation_user b ON b.conversation_id = a.conversation_id
		WHERE a.user_id = $1 AND b.user_id = $2
		`
	var conversationID int64
	var err error
	if tx := contextGetTX(ctx); tx != nil {
		err = tx.QueryRowContext(ctx, query, userA, userB).Scan(&conversationID)
	} else {
		err = r.db.QueryRowContext(ctx, query, userA, userB).Scan(&conversationID)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrRecordNotFound
		}
		return 0, err
	}
	return conversationID, nil
}

func (r *ConversationRepository) CreateConversation(ctx context.Context, userA, userB string) (int64, error) {
	insertConvo := `
		INSERT INTO conversation DEFAULT VALUES 
		RETURNING id
		`
	insertParticipants := `
		INSERT INTO conversation_user (conversation_id, user_id) 
		VALUES ($1, $2), ($1, $3)
		`
	var conversationID int64
	var err error
	if tx := contextGetTX(ctx); tx != nil {
		if err = tx.QueryRowContext(ctx, insertConvo).Scan(&conversationID); err != nil {
			return 0, err
		}
		_, err = tx.ExecContext(ctx, insertParticipants, conversationID, userA, userB)
	} else {
		if err = r.db.QueryRowContext(ctx, insertConvo).Scan(&conversationID); err != nil {
			return 0, err
		}
		_, err = r.db.ExecContext(ctx, insertParticipants, conversationID, userA, userB)
	}
	if err != nil {
		return 0, err
	}
	return conversationID, nil
}
