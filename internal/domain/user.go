package domain

import (
	"context"
	"time"
)

var AnonymousUser = &User{}

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	PhotoURL  *string   `json:"photoUrl"   db:"photo_url"`
	Password  []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"  db:"created_at"`
	Version   int       `json:"-"`
}

type UserService interface {
	RegisterUser(ctx context.Context, u *UserRegister) (string, error)
	GetByUniqueField(ctx context.Context, fieldValue string) (*User, error)
	GetForToken(ctx context.Context, scope string, plainToken string) (*User, error)
	AuthenticateUser(ctx context.Context, u *UserAuth) (string, error)
}

type UserRepository interface {
	RegisterUser(ctx context.Context, u *User) (string, error)
	ExistsUser(ctx context.Context, username string) (bool, error)
	GetByUniqueField(ctx context.Context, fieldName, fieldValue string) (*User, error)
	GetForToken(ctx context.Context, scope string, hash []byte) (*User, error)
}

// DTOs

type UserRegister struct {
	Username string  `json:"username"`
	PhotoURL *string `json:"photoUrl"`
	Password string  `json:"password"`
}

type UserAuth struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (u *User) IsAnonymousUser() bool {
	return u == AnonymousUser
}

func ValidateUsername(username string, ev *ErrValidation) {
	ev.Evaluate(username != "", "username", "must be provided")
	ev.Evaluate(len(username) >= 3, "username", "must be at least 3 bytes long")
	ev.Evaluate(len(username) <= 30, "username", "must be no more than 30 bytes long")
}

func ValidatePhotoURL(photoURL *string, ev *ErrValidation) {
	if photoURL == nil {
		return
	}
	ev.Evaluate(*photoURL != "", "photoUrl", "must not be empty when provided")
	ev.Evaluate(len(*photoURL) <= 2048, "photoUrl", "must be no more than 2048 bytes long")
}

func ValidPlainPassword(pass string, ev *ErrValidation) {
	ev.Evaluate(pass != "", "password", "must be provided")
	ev.Evaluate(pass == "" || len(pass) >= 8, "password", "must be at least 8 bytes long")
	ev.Evaluate(len(pass) <= 72, "password", "must no be more than 72 bytes long")
}
