// Package artisan manages seller profiles. The display name and
// location registered here are denormalized onto every product the
// artisan lists, so catalog queries never need a join.
package artisan

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/example/artisan-market/internal/infrastructure/store"
	"github.com/google/uuid"
)

const AggregateType = "Artisan"

var (
	ErrArtisanNotFound    = errors.New("artisan not found")
	ErrInvalidUser        = errors.New("user_id is required")
	ErrInvalidDisplayName = errors.New("display_name is required")
	ErrInvalidLocation    = errors.New("location is required")
	ErrNoChanges          = errors.New("no profile changes provided")
)

type Artisan struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Location    string    `json:"location"`
	Bio         string    `json:"bio,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Changes holds optional profile updates. Nil fields are untouched.
type Changes struct {
	DisplayName *string
	Location    *string
	Bio         *string
}

func (c Changes) empty() bool {
	return c.DisplayName == nil && c.Location == nil && c.Bio == nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

func (s *Service) Register(ctx context.Context, userID, displayName, location, bio string) (*Artisan, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}
	if displayName == "" {
		return nil, ErrInvalidDisplayName
	}
	if location == "" {
		return nil, ErrInvalidLocation
	}

	artisanID := uuid.New().String()
	now := time.Now()

	event := ArtisanRegistered{
		ArtisanID:    artisanID,
		UserID:       userID,
		DisplayName:  displayName,
		Location:     location,
		Bio:          bio,
		RegisteredAt: now,
	}

	if _, err := s.eventStore.Append(ctx, artisanID, AggregateType, EventArtisanRegistered, event); err != nil {
		return nil, err
	}

	return &Artisan{
		ID:          artisanID,
		UserID:      userID,
		DisplayName: displayName,
		Location:    location,
		Bio:         bio,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *Service) UpdateProfile(ctx context.Context, artisanID string, changes Changes) error {
	if changes.empty() {
		return ErrNoChanges
	}
	if changes.DisplayName != nil && *changes.DisplayName == "" {
		return ErrInvalidDisplayName
	}
	if changes.Location != nil && *changes.Location == "" {
		return ErrInvalidLocation
	}

	if len(s.eventStore.GetEvents(artisanID)) == 0 {
		return ErrArtisanNotFound
	}

	event := ArtisanProfileUpdated{
		ArtisanID:   artisanID,
		DisplayName: changes.DisplayName,
		Location:    changes.Location,
		Bio:         changes.Bio,
		UpdatedAt:   time.Now(),
	}

	_, err := s.eventStore.Append(ctx, artisanID, AggregateType, EventArtisanProfileUpdated, event)
	return err
}

// Load replays an artisan profile from its event stream.
func (s *Service) Load(ctx context.Context, artisanID string) (*Artisan, error) {
	events := s.eventStore.GetEvents(artisanID)
	if len(events) == 0 {
		return nil, ErrArtisanNotFound
	}

	a := &Artisan{}
	for _, event := range events {
		switch event.EventType {
		case EventArtisanRegistered:
			var data ArtisanRegistered
			if err := json.Unmarshal(event.Data, &data); err != nil {
				return nil, err
			}
			a.ID = data.ArtisanID
			a.UserID = data.UserID
			a.DisplayName = data.DisplayName
			a.Location = data.Location
			a.Bio = data.Bio
			a.CreatedAt = data.RegisteredAt
			a.UpdatedAt = data.RegisteredAt
		case EventArtisanProfileUpdated:
			var data ArtisanProfileUpdated
			if err := json.Unmarshal(event.Data, &data); err != nil {
				return nil, err
			}
			if data.DisplayName != nil {
				a.DisplayName = *data.DisplayName
			}
			if data.Location != nil {
				a.Location = *data.Location
			}
			if data.Bio != nil {
				a.Bio = *data.Bio
			}
			a.UpdatedAt = data.UpdatedAt
		}
	}
	return a, nil
}
