package auth

import (
	"context"

	authpkg "github.com/kailas-cloud/caskbook/internal/auth"
	domuser "github.com/kailas-cloud/caskbook/internal/domain/user"
)

// UserRepository defines the storage contract for accounts.
type UserRepository interface {
	Create(ctx context.Context, u *domuser.User) error
	Update(ctx context.Context, u *domuser.User) error
	GetByID(ctx context.Context, id string) (domuser.User, error)
	GetByEmail(ctx context.Context, email string) (domuser.User, error)
}

// TokenIssuer signs and validates bearer tokens.
type TokenIssuer interface {
	IssueAccess(userID, email string) (string, error)
	IssueRefresh(userID string) (string, error)
	Validate(token string, want authpkg.TokenType) (*authpkg.Claims, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) (bool, error)
}
