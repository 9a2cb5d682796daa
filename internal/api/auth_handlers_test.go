package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/artisan-market/internal/api/middleware"
	"github.com/example/artisan-market/internal/auth"
	"github.com/example/artisan-market/internal/command"
	"github.com/example/artisan-market/internal/domain/artisan"
	"github.com/example/artisan-market/internal/domain/cart"
	"github.com/example/artisan-market/internal/domain/engagement"
	"github.com/example/artisan-market/internal/domain/inventory"
	"github.com/example/artisan-market/internal/domain/order"
	"github.com/example/artisan-market/internal/domain/product"
	"github.com/example/artisan-market/internal/domain/user"
	"github.com/example/artisan-market/internal/domain/wishlist"
	"github.com/example/artisan-market/internal/infrastructure/store/mocks"
	"github.com/example/artisan-market/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthHandlers() (*AuthHandlers, *auth.JWTService, *user.Service, *mocks.MockEventStore) {
	eventStore := mocks.NewMockEventStore()
	readStore := mocks.NewMockReadStore()

	userSvc := user.NewService(eventStore)
	jwtSvc := auth.NewJWTService("test-secret-key-of-sufficient-length", 15*time.Minute, time.Hour)
	cmdHandler := command.NewHandler(
		product.NewService(eventStore),
		engagement.NewService(eventStore),
		cart.NewService(eventStore),
		wishlist.NewService(eventStore),
		order.NewService(eventStore),
		inventory.NewService(eventStore),
		artisan.NewService(eventStore),
		readStore,
	)
	queryHandler := query.NewHandler(readStore, nil)

	return NewAuthHandlers(userSvc, jwtSvc, cmdHandler, queryHandler), jwtSvc, userSvc, eventStore
}

func registerArtisanRequest(claims *auth.Claims) *http.Request {
	body := `{"display_name":"Meera Ceramics","location":"Jaipur","bio":"Hand-thrown pottery"}`
	req := httptest.NewRequest(http.MethodPost, "/artisans", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
}

func accessTokenCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	res := rr.Result()
	defer res.Body.Close()
	for _, c := range res.Cookies() {
		if c.Name == "access_token" {
			return c
		}
	}
	t.Fatal("access_token cookie not set")
	return nil
}

// ============================================
// Artisan Registration Tests
// ============================================

func TestRegisterArtisan_UpgradesCustomerRole(t *testing.T) {
	h, jwtSvc, userSvc, eventStore := newTestAuthHandlers()

	u, err := userSvc.Register(context.Background(), "meera@example.com", "secret123", "Meera Sharma")
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	h.RegisterArtisan(rr, registerArtisanRequest(&auth.Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   user.RoleCustomer,
	}))

	require.Equal(t, http.StatusCreated, rr.Code)

	var profile artisan.Artisan
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, u.ID, profile.UserID)

	// The re-issued token carries the artisan role and profile ID.
	claims, err := jwtSvc.ValidateAccessToken(accessTokenCookie(t, rr).Value)
	require.NoError(t, err)
	assert.Equal(t, user.RoleArtisan, claims.Role)
	assert.Equal(t, profile.ID, claims.ArtisanID)

	// The account itself moved roles through an event.
	var roleChanged *user.UserRoleChanged
	for _, call := range eventStore.AppendCalls {
		if call.EventType == user.EventUserRoleChanged {
			e := call.Data.(user.UserRoleChanged)
			roleChanged = &e
		}
	}
	require.NotNil(t, roleChanged)
	assert.Equal(t, u.ID, roleChanged.UserID)
	assert.Equal(t, user.RoleArtisan, roleChanged.Role)
}

func TestRegisterArtisan_NewTokenPassesSellerGate(t *testing.T) {
	h, jwtSvc, userSvc, _ := newTestAuthHandlers()

	u, err := userSvc.Register(context.Background(), "meera@example.com", "secret123", "Meera Sharma")
	require.NoError(t, err)

	sellerOnly := middleware.Auth(jwtSvc)(middleware.RequireRole(user.RoleArtisan, user.RoleAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))

	// Before the upgrade a customer token is rejected.
	customerToken, _, err := jwtSvc.GenerateAccessToken(u.ID, u.Email, user.RoleCustomer, "")
	require.NoError(t, err)
	before := httptest.NewRequest(http.MethodPost, "/products", nil)
	before.AddCookie(&http.Cookie{Name: "access_token", Value: customerToken})
	rr := httptest.NewRecorder()
	sellerOnly.ServeHTTP(rr, before)
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = httptest.NewRecorder()
	h.RegisterArtisan(rr, registerArtisanRequest(&auth.Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   user.RoleCustomer,
	}))
	require.Equal(t, http.StatusCreated, rr.Code)
	cookie := accessTokenCookie(t, rr)

	// The cookie issued by the upgrade clears the same gate.
	after := httptest.NewRequest(http.MethodPost, "/products", nil)
	after.AddCookie(&http.Cookie{Name: "access_token", Value: cookie.Value})
	rr = httptest.NewRecorder()
	sellerOnly.ServeHTTP(rr, after)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRegisterArtisan_KeepsAdminRole(t *testing.T) {
	h, jwtSvc, userSvc, eventStore := newTestAuthHandlers()

	u, err := userSvc.RegisterWithRole(context.Background(), "admin@example.com", "secret123", "Site Admin", user.RoleAdmin)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	h.RegisterArtisan(rr, registerArtisanRequest(&auth.Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   user.RoleAdmin,
	}))

	require.Equal(t, http.StatusCreated, rr.Code)

	claims, err := jwtSvc.ValidateAccessToken(accessTokenCookie(t, rr).Value)
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, claims.Role)

	for _, call := range eventStore.AppendCalls {
		assert.NotEqual(t, user.EventUserRoleChanged, call.EventType)
	}
}
