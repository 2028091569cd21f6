package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shinyyama/placereview/internal/auth"
	"github.com/shinyyama/placereview/internal/db/dbtest"
	"github.com/shinyyama/placereview/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

func TestLoginFailuresPayOneHashCompare(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUserRepository(dbtest.Open(t))
	svc := NewAuthService(users, auth.NewIssuer("test-secret", time.Hour), bcrypt.MinCost).(*authService)

	if _, err := svc.Register(ctx, RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "password1", FullName: "Alice",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword(svc.dummyHash, []byte("password1")); !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		t.Fatalf("dummy hash is not a usable bcrypt hash: %v", err)
	}

	var calls int
	svc.compare = func(hash, password []byte) error {
		calls++
		return bcrypt.CompareHashAndPassword(hash, password)
	}

	tests := []struct {
		name  string
		email string
	}{
		{"wrong password", "alice@example.com"},
		{"unknown email", "ghost@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls = 0
			_, err := svc.Login(ctx, tt.email, "not-the-password")
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("err=%v want ErrInvalidCredentials", err)
			}
			if calls != 1 {
				t.Fatalf("bcrypt compares=%d want 1", calls)
			}
		})
	}
}
