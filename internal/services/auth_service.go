package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"rental/internal/apperr"
	"rental/internal/models"
	"rental/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and profile lookup.
type AuthService struct {
	userRepo   repositories.UserRepository
	tokens     *TokenService
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, tokens *TokenService, bcryptCost int) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// RegisterUser creates a user with a bcrypt hash of password.
func (s *AuthService) RegisterUser(name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	fields := make(map[string]string)
	if name == "" {
		fields["name"] = "name is required"
	}
	if email == "" {
		fields["email"] = "email is required"
	}
	if password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	existing, err := s.userRepo.GetByEmail(email)
	switch {
	case err == nil && existing != nil:
		return nil, fmt.Errorf("%w: email '%s' already registered", apperr.ErrDuplicateEmail, email)
	case err != nil && !errors.Is(err, apperr.ErrNotFound):
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// LoginUser checks the credentials and returns the user with a fresh token.
func (s *AuthService) LoginUser(email, password string) (*models.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", apperr.Validation(map[string]string{"credentials": "email and password are required"})
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Printf("Password mismatch for %s", email)
		return nil, "", fmt.Errorf("%w: password does not match", apperr.ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(Claims{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Profile returns the user identified by userID.
func (s *AuthService) Profile(userID string) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
