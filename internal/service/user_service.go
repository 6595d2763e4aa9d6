package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	dom "Planner/internal/domain"
	"Planner/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrUsernameTaken = errors.New("username already taken")
var ErrWeakPassword = errors.New("password too short")

const minPasswordLen = 8

// UserService handles user auth logic.
type UserService struct {
	repo repo.UserRepo
	cost int
}

// NewUserService returns a new UserService hashing with bcrypt.DefaultCost.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost of newly hashed passwords.
func (s *UserService) WithCost(cost int) *UserService {
	s.cost = cost
	return s
}

// ValidateCredentials checks username and password; returns user if valid.
// Returned users never carry the password hash.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u.Public(), nil
}

// Get returns the user by id.
func (s *UserService) Get(ctx context.Context, id int64) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dom.User{}, notFound(err)
	}
	return u.Public(), nil
}

// Register creates a new user with hashed password.
func (s *UserService) Register(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return dom.User{}, fmt.Errorf("%w: at least %d characters", ErrWeakPassword, minPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, username, string(hash))
	if err != nil {
		if repo.IsUniqueViolation(err) {
			return dom.User{}, ErrUsernameTaken
		}
		return dom.User{}, err
	}
	return u.Public(), nil
}
