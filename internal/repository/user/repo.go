package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/caskbook/internal/db"
	"github.com/kailas-cloud/caskbook/internal/domain"
	domuser "github.com/kailas-cloud/caskbook/internal/domain/user"
)

// store is the consumer interface for users (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

// Repo implements usecase/auth.Repository.
type Repo struct {
	store store
}

// New creates a user repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

type userRecord struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Create stores a new user. The email index is claimed first so concurrent
// registrations for one address cannot both succeed.
func (r *Repo) Create(ctx context.Context, u *domuser.User) error {
	ok, err := r.store.SetNX(ctx, emailKey(u.Email), []byte(u.ID))
	if err != nil {
		return fmt.Errorf("claim email: %w", err)
	}
	if !ok {
		return domain.ErrEmailTaken
	}
	if err := r.put(ctx, u); err != nil {
		if delErr := r.store.Del(ctx, emailKey(u.Email)); delErr != nil {
			return errors.Join(err, fmt.Errorf("release email: %w", delErr))
		}
		return err
	}
	return nil
}

// Update overwrites an existing user record.
func (r *Repo) Update(ctx context.Context, u *domuser.User) error {
	return r.put(ctx, u)
}

// GetByID returns a user by ID.
func (r *Repo) GetByID(ctx context.Context, id string) (domuser.User, error) {
	raw, err := r.store.Get(ctx, userKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domuser.User{}, domain.ErrUserNotFound
		}
		return domuser.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	var rec userRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domuser.User{}, fmt.Errorf("unmarshal user %s: %w", id, err)
	}
	return domuser.User(rec), nil
}

// GetByEmail resolves the email index, then loads the user.
func (r *Repo) GetByEmail(ctx context.Context, email string) (domuser.User, error) {
	id, err := r.store.Get(ctx, emailKey(email))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domuser.User{}, domain.ErrUserNotFound
		}
		return domuser.User{}, fmt.Errorf("resolve email: %w", err)
	}
	return r.GetByID(ctx, string(id))
}

func (r *Repo) put(ctx context.Context, u *domuser.User) error {
	data, err := json.Marshal(userRecord(*u))
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := r.store.Set(ctx, userKey(u.ID), data); err != nil {
		return fmt.Errorf("set user %s: %w", u.ID, err)
	}
	return nil
}

func userKey(id string) string     { return domain.KeyPrefix + "user:" + id }
func emailKey(email string) string { return domain.KeyPrefix + "user:email:" + email }
