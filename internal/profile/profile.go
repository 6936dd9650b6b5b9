package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/thinai_hub/internal/logging"
)

const (
	DefaultName = "User"
	DefaultRole = "user"
)

var ErrNoUID = errors.New("identity has no uid")

type Profile struct {
	UID       string `json:"uid" firestore:"uid"`
	Email     string `json:"email" firestore:"email"`
	Name      string `json:"name" firestore:"name"`
	Role      string `json:"role" firestore:"role"`
	CreatedAt string `json:"createdAt" firestore:"createdAt"`
}

// Identity is what the identity provider knows about a signed-in user.
type Identity struct {
	UID   string
	Email string
	Name  string
}

// Store creates a profile only when none exists for the uid and otherwise
// returns the stored one untouched.
type Store interface {
	CreateIfAbsent(ctx context.Context, p Profile) (Profile, bool, error)
}

type Service struct {
	Store Store
	Now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{Store: store}
}

// Sync makes sure a profile exists for id. Repeated logins never overwrite it.
func (s *Service) Sync(ctx context.Context, id Identity) (Profile, bool, error) {
	if id.UID == "" {
		return Profile{}, false, ErrNoUID
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	name := id.Name
	if name == "" {
		name = DefaultName
	}

	p, created, err := s.Store.CreateIfAbsent(ctx, Profile{
		UID:       id.UID,
		Email:     id.Email,
		Name:      name,
		Role:      DefaultRole,
		CreatedAt: now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
	if err != nil {
		return Profile{}, false, fmt.Errorf("sync profile %s: %w", id.UID, err)
	}

	if created {
		logging.FromContext(ctx).Info("profile_created", "uid", id.UID)
	}
	return p, created, nil
}
