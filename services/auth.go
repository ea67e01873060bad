package services

import (
	"context"
	"strings"

	"food-ordering-api/apperr"
	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/repository"

	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Name     string          `validate:"required,max=100"`
	Email    string          `validate:"required,email"`
	Password string          `validate:"required,min=6"`
	Role     models.UserRole `validate:"required,oneof=customer owner"`
	Phone    string          `validate:"max=30"`
}

// Session is what a successful sign-in hands back to the client.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService struct {
	users  repository.UserRepository
	tokens *middleware.TokenIssuer
}

func NewAuthService(users repository.UserRepository, tokens *middleware.TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates an email/password account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	_, err := s.users.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, apperr.Conflict("email already registered")
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err, "hash password")
	}
	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		Phone:        strings.TrimSpace(in.Phone),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.session(user)
}

// Login checks the password; unknown emails and wrong passwords look the same.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Unauthorized("invalid email or password")
	}
	if err != nil {
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, apperr.Unauthorized("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Unauthorized("invalid email or password")
	}
	return s.session(user)
}

// SignInAnonymously creates a guest customer with no credentials.
func (s *AuthService) SignInAnonymously(ctx context.Context, name string) (*Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Guest"
	}
	user := &models.User{Name: name, Role: models.RoleCustomer, Anonymous: true}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.session(user)
}

// Profile returns the user with the IDs of every linked shop.
func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) session(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperr.Internal(err, "sign token")
	}
	if user.ShopIDs == nil {
		user.ShopIDs = []uint{}
	}
	return &Session{Token: token, User: user}, nil
}
