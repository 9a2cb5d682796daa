package artisan

import "time"

const (
	EventArtisanRegistered     = "ArtisanRegistered"
	EventArtisanProfileUpdated = "ArtisanProfileUpdated"
)

type ArtisanRegistered struct {
	ArtisanID    string    `json:"artisan_id"`
	UserID       string    `json:"user_id"`
	DisplayName  string    `json:"display_name"`
	Location     string    `json:"location"`
	Bio          string    `json:"bio,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

type ArtisanProfileUpdated struct {
	ArtisanID   string    `json:"artisan_id"`
	DisplayName *string   `json:"display_name,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
