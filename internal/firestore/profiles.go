package firestoreinfra

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Skotchmaster/thinai_hub/internal/profile"
)

const usersCollection = "users"

// ProfileStore keeps one document per uid in the users collection.
type ProfileStore struct {
	Client *firestore.Client
}

func NewProfileStore(client *firestore.Client) *ProfileStore {
	return &ProfileStore{Client: client}
}

func (s *ProfileStore) CreateIfAbsent(ctx context.Context, p profile.Profile) (profile.Profile, bool, error) {
	ref := s.Client.Collection(usersCollection).Doc(p.UID)

	_, err := ref.Create(ctx, p)
	if err == nil {
		return p, true, nil
	}
	if status.Code(err) != codes.AlreadyExists {
		return profile.Profile{}, false, fmt.Errorf("firestore: create profile: %w", err)
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		return profile.Profile{}, false, fmt.Errorf("firestore: get profile: %w", err)
	}
	var existing profile.Profile
	if err := snap.DataTo(&existing); err != nil {
		return profile.Profile{}, false, fmt.Errorf("firestore: decode profile: %w", err)
	}
	return existing, false, nil
}
