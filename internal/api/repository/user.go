package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/m-waqas88/messenger/internal/domain"
)

var _ domain.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) RegisterUser(ctx context.Context, u *domain.User) (string, error) {
	query := `
		INSERT INTO users (username, photo_url, password)
		VALUES ($1, $2, $3)
		RETURNING id
		`
	args := []any{u.Username, u.PhotoURL, u.Password}
	var userID string
	var err error
	if tx := contextGetTX(ctx); tx != nil {
		err = tx.QueryRowxContext(ctx, query, args...).Scan(&userID)
	} else {
		err = r.db.QueryRowxContext(ctx, query, args...).Scan(&userID)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" && pgErr.ConstraintName == "users_username_key" {
				return "", domain.ErrDuplicateUsername
			}
		}
		return "", err
	}
	return userID, nil
}

func (r *UserRepository) ExistsUser(ctx context.Context, username string) (bool, error) {
	existsQuery := `SELECT EXISTS(SELECT TRUE FROM users WHERE username = $1)`
	exists := false
	var err error
	if tx := contextGetTX(ctx); tx != nil {
		err = tx.QueryRowContext(ctx, existsQuery, username).Scan(&exists)
	} else {
		err = r.db.QueryRowContext(ctx, existsQuery, username).Scan(&exists)
	}
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UserRepository) GetByUniqueField(ctx context.Context, fieldName, fieldValue string) (*domain.User, error) {
	query := `
		SELECT * 
		FROM users
		WHERE %v = $1
		`
	query = fmt.Sprintf(query, fieldName)
	var user domain.User
	var err error
	if tx := contextGetTX(ctx); tx != nil {
		err = tx.QueryRowxContext(ctx, query, fieldValue).StructScan(&user)
	} else {
		err = r.db.QueryRowxContext(ctx, query, fieldValue).StructScan(&user)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetForToken(ctx context.Context, scope string, hash []byte) (*domain.User, error) {
	query := `
		SELECT * FROM users u
	    WHERE id IN (
	    SELECT user_id
	    FROM token WHERE scope = $1 
         AND hash = $2 
         AND expiry > NOW())
		`
	var usr domain.User
	var err error
	if tx := contextGetTX(ctx); tx != nil {
		err = tx.QueryRowxContext(ctx, query, scope, hash).StructScan(&usr)
	} else {
		err = r.db.QueryRowxContext(ctx, query, scope, hash).StructScan(&usr)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &usr, nil
}
