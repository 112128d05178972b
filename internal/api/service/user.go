package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/m-waqas88/messenger/internal/domain"
)

// ensures UserService implements the domain.UserService interface
var _ domain.UserService = (*UserService)(nil)

type UserService struct {
	userRepository domain.UserRepository
}

func NewUserService(userRepo domain.UserRepository) *UserService {
	return &UserService{
		userRepository: userRepo,
	}
}

func (s *UserService) RegisterUser(ctx context.Context, u *domain.UserRegister) (string, error) {
	ev := domain.NewErrValidation()
	domain.ValidateUsername(u.Username, ev)
	domain.ValidatePhotoURL(u.PhotoURL, ev)
	domain.ValidPlainPassword(u.Password, ev)
	if ev.HasErrors() {
		return "", ev
	}
	exists, err := s.userRepository.ExistsUser(ctx, u.Username)
	if err != nil {
		return "", err
	}
	if exists {
		ev.AddError("username", "already exists")
		return "", ev
	}
	passHash, err := generatePasswordHash(u.Password) // check if exists then hash, takes 200 ms approx.
	if err != nil {
		return "", fmt.Errorf("error generating password hash: %w", err)
	}
	usr := &domain.User{
		Username: u.Username,
		PhotoURL: u.PhotoURL,
		Password: passHash,
	}
	userID, err := s.userRepository.RegisterUser(ctx, usr)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			ev.AddError("username", "already exists")
			return "", ev
		}
		return "", err
	}
	return userID, nil
}

func (s *UserService) GetByUniqueField(ctx context.Context, fieldValue string) (*domain.User, error) {
	var fieldName string
	if uuid.Validate(fieldValue) == nil {
		fieldName = "id"
	} else {
		fieldName = "username"
	}
	user, err := s.userRepository.GetByUniqueField(ctx, fieldName, fieldValue)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetForToken(ctx context.Context, scope string, plainToken string) (*domain.User, error) {
	ev := domain.NewErrValidation()
	domain.ValidateAuthenticationToken(plainToken, ev)
	if ev.HasErrors() {
		return nil, ev
	}
	tokenHash := sha256.Sum256([]byte(plainToken))
	usr, err := s.userRepository.GetForToken(ctx, scope, tokenHash[:]) // converting array to slice
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			ev.AddError("token", "invalid")
			return nil, ev
		}
		return nil, err
	}
	return usr, nil
}

func (s *UserService) AuthenticateUser(ctx context.Context, u *domain.UserAuth) (string, error) {
	ev := domain.NewErrValidation()
	domain.ValidateUsername(u.Username, ev)
	domain.ValidPlainPassword(u.Password, ev)
	if ev.HasErrors() {
		return "", ev
	}
	usr, err := s.userRepository.GetByUniqueField(ctx, "username", u.Username)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			ev.AddError("username", "not registered")
			return "", ev
		}
		return "", err
	}
	if !comparePasswordHash(usr.Password, u.Password) {
		ev.AddError("password", "does not match")
		return "", ev
	}
	return usr.ID, nil
}

func generatePasswordHash(plainPassword string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), 12)
	if err != nil {
		return nil, err
	}
	return hash, nil
}

// comparePasswordHash returns true for password-hash match, false otherwise
func comparePasswordHash(hash []byte, plain string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plain)) == nil
}
