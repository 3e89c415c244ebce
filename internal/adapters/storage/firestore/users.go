package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

type userDoc struct {
	Email           string        `firestore:"email"`
	Tier            string        `firestore:"tier"`
	ChosenCompanion string        `firestore:"chosen_companion"`
	Features        tier.Features `firestore:"features"`
	SubscriptionID  string        `firestore:"subscription_id"`
	CreatedAt       time.Time     `firestore:"created_at"`
	LastActive      time.Time     `firestore:"last_active"`
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{
		Email:           u.Email,
		Tier:            string(u.Tier),
		ChosenCompanion: u.ChosenCompanion,
		Features:        u.Features,
		SubscriptionID:  u.SubscriptionID,
		CreatedAt:       u.CreatedAt,
		LastActive:      u.LastActive,
	}
}

func (d userDoc) toDomain(id string) *domain.User {
	return &domain.User{
		ID:              domain.UserID(id),
		Email:           d.Email,
		Tier:            tier.Name(d.Tier),
		ChosenCompanion: d.ChosenCompanion,
		Features:        d.Features,
		SubscriptionID:  d.SubscriptionID,
		CreatedAt:       d.CreatedAt,
		LastActive:      d.LastActive,
	}
}

func decodeUser(snap *firestore.DocumentSnapshot) (*domain.User, error) {
	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	return doc.toDomain(snap.Ref.ID), nil
}

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	if _, err := s.userDoc(u.ID).Create(ctx, toUserDoc(u)); err != nil {
		return mapError("CreateUser", err)
	}
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	if _, err := s.userDoc(u.ID).Get(ctx); err != nil {
		return mapError("UpdateUser", err)
	}
	if _, err := s.userDoc(u.ID).Set(ctx, toUserDoc(u)); err != nil {
		return mapError("UpdateUser", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	snap, err := s.userDoc(id).Get(ctx)
	if err != nil {
		return nil, mapError("GetUser", err)
	}
	return decodeUser(snap)
}

func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	iter := s.client.Collection(colUsers).OrderBy("created_at", firestore.Asc).Documents(ctx)
	return collect(iter, "ListUsers", decodeUser)
}
