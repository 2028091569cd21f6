package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shinyyama/placereview/internal/auth"
	"github.com/shinyyama/placereview/internal/model"
	"github.com/shinyyama/placereview/internal/repository"
	"github.com/shinyyama/placereview/internal/reqctx"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	maxEmailLen    = 100
	maxFullNameLen = 100
	minPasswordLen = 6
	// bcrypt ignores input past 72 bytes
	maxPasswordLen = 72
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type authService struct {
	users      repository.UserRepository
	tokens     *auth.Issuer
	bcryptCost int
	// compared against when the email is unknown so both login failures cost
	// one bcrypt round
	dummyHash []byte
	compare   func(hash, password []byte) error
}

func NewAuthService(users repository.UserRepository, tokens *auth.Issuer, bcryptCost int) AuthService {
	s := &authService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		compare:    bcrypt.CompareHashAndPassword,
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("placereview-login-dummy"), bcryptCost)
	if err != nil {
		log.Printf("[auth] dummy hash at cost %d: %v", bcryptCost, err)
		hash, _ = bcrypt.GenerateFromPassword([]byte("placereview-login-dummy"), bcrypt.DefaultCost)
	}
	s.dummyHash = hash
	return s
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	if err := validateRegister(in); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	log.Printf("[auth] rid=%s registered user=%d", reqctx.RID(ctx), u.ID)
	return u, nil
}

func validateRegister(in RegisterInput) error {
	switch n := utf8.RuneCountInString(in.Username); {
	case n < minUsernameLen:
		return fmt.Errorf("%w: username must be at least %d characters", ErrInvalidInput, minUsernameLen)
	case n > maxUsernameLen:
		return fmt.Errorf("%w: username must be at most %d characters", ErrInvalidInput, maxUsernameLen)
	}
	if len(in.Email) > maxEmailLen || !emailPattern.MatchString(in.Email) {
		return fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLen || len(in.Password) > maxPasswordLen {
		return fmt.Errorf("%w: password must be %d to %d characters", ErrInvalidInput, minPasswordLen, maxPasswordLen)
	}
	if in.FullName == "" || utf8.RuneCountInString(in.FullName) > maxFullNameLen {
		return fmt.Errorf("%w: full_name is required", ErrInvalidInput)
	}
	return nil
}

// Login returns a signed session token. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if notFound(err) == ErrNotFound {
			_ = s.compare(s.dummyHash, []byte(password))
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := s.compare([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	if !u.IsActive {
		return "", ErrAccountInactive
	}
	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
