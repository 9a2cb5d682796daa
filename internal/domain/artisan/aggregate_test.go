package artisan

import (
	"context"
	"testing"

	"github.com/example/artisan-market/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArtisanService() (*Service, *mocks.MockEventStore) {
	eventStore := mocks.NewMockEventStore()
	service := NewService(eventStore)
	return service, eventStore
}

func strPtr(s string) *string { return &s }

// ============================================
// Register Tests
// ============================================

func TestService_Register_Success(t *testing.T) {
	service, eventStore := newTestArtisanService()

	a, err := service.Register(context.Background(), "user-1", "Meera Ceramics", "Jaipur", "Hand-thrown pottery since 2010")

	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "user-1", a.UserID)
	assert.Equal(t, "Meera Ceramics", a.DisplayName)
	assert.Equal(t, "Jaipur", a.Location)

	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, EventArtisanRegistered, eventStore.AppendCalls[0].EventType)
	assert.Equal(t, AggregateType, eventStore.AppendCalls[0].AggregateType)
}

func TestService_Register_Validation(t *testing.T) {
	service, eventStore := newTestArtisanService()
	ctx := context.Background()

	_, err := service.Register(ctx, "", "Meera Ceramics", "Jaipur", "")
	assert.ErrorIs(t, err, ErrInvalidUser)

	_, err = service.Register(ctx, "user-1", "", "Jaipur", "")
	assert.ErrorIs(t, err, ErrInvalidDisplayName)

	_, err = service.Register(ctx, "user-1", "Meera Ceramics", "", "")
	assert.ErrorIs(t, err, ErrInvalidLocation)

	assert.Empty(t, eventStore.AppendCalls)
}

// ============================================
// UpdateProfile Tests
// ============================================

func TestService_UpdateProfile_Success(t *testing.T) {
	service, eventStore := newTestArtisanService()
	ctx := context.Background()

	a, err := service.Register(ctx, "user-1", "Meera Ceramics", "Jaipur", "")
	require.NoError(t, err)

	err = service.UpdateProfile(ctx, a.ID, Changes{Location: strPtr("Udaipur")})

	require.NoError(t, err)
	require.Len(t, eventStore.AppendCalls, 2)
	data := eventStore.AppendCalls[1].Data.(ArtisanProfileUpdated)
	require.NotNil(t, data.Location)
	assert.Equal(t, "Udaipur", *data.Location)
	assert.Nil(t, data.DisplayName)
}

func TestService_UpdateProfile_NoChanges(t *testing.T) {
	service, _ := newTestArtisanService()

	err := service.UpdateProfile(context.Background(), "artisan-1", Changes{})

	assert.ErrorIs(t, err, ErrNoChanges)
}

func TestService_UpdateProfile_NotFound(t *testing.T) {
	service, _ := newTestArtisanService()

	err := service.UpdateProfile(context.Background(), "missing", Changes{Bio: strPtr("new bio")})

	assert.ErrorIs(t, err, ErrArtisanNotFound)
}

func TestService_UpdateProfile_EmptyDisplayName(t *testing.T) {
	service, _ := newTestArtisanService()

	err := service.UpdateProfile(context.Background(), "artisan-1", Changes{DisplayName: strPtr("")})

	assert.ErrorIs(t, err, ErrInvalidDisplayName)
}

// ============================================
// Load Tests
// ============================================

func TestService_Load_ReplaysUpdates(t *testing.T) {
	service, _ := newTestArtisanService()
	ctx := context.Background()

	a, err := service.Register(ctx, "user-1", "Meera Ceramics", "Jaipur", "old bio")
	require.NoError(t, err)
	require.NoError(t, service.UpdateProfile(ctx, a.ID, Changes{
		DisplayName: strPtr("Meera Studio"),
		Bio:         strPtr("new bio"),
	}))

	loaded, err := service.Load(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Meera Studio", loaded.DisplayName)
	assert.Equal(t, "Jaipur", loaded.Location)
	assert.Equal(t, "new bio", loaded.Bio)
}

func TestService_Load_NotFound(t *testing.T) {
	service, _ := newTestArtisanService()

	_, err := service.Load(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrArtisanNotFound)
}
