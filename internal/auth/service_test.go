package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcharmz/charmz-backend/internal/shop"
	"github.com/samcharmz/charmz-backend/pkg/config"
	"github.com/samcharmz/charmz-backend/pkg/db/models"
	"github.com/samcharmz/charmz-backend/pkg/security"
)

type fakeShop struct {
	lastSession string
	lastAction  shop.Action
	state       shop.State
}

func (f *fakeShop) Current(context.Context, string) (shop.State, error) {
	return f.state, nil
}

func (f *fakeShop) Dispatch(_ context.Context, sessionID string, action shop.Action) (shop.State, error) {
	f.lastSession = sessionID
	f.lastAction = action
	f.state = shop.Apply(f.state, action)
	return f.state, nil
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func newTestService(t *testing.T, store *fakeShop, delay time.Duration) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Shop:     store,
		Password: testPasswordConfig(),
		Delay:    delay,
	})
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresShop(t *testing.T) {
	_, err := NewService(ServiceParams{})
	assert.Error(t, err)
}

func TestLoginAlwaysSucceeds(t *testing.T) {
	store := &fakeShop{}
	svc := newTestService(t, store, 0)

	state, err := svc.Login(context.Background(), "sess-1", LoginInput{
		Email:    "shopper@example.com",
		Password: "hunter2",
	})
	require.NoError(t, err)
	require.NotNil(t, state.User)
	assert.True(t, state.User.IsLoggedIn)
	assert.Equal(t, "shopper@example.com", state.User.Email)
	assert.Equal(t, "sess-1", store.lastSession)
}

func TestLoginBackfillsDemoNames(t *testing.T) {
	svc := newTestService(t, &fakeShop{}, 0)

	state, err := svc.Login(context.Background(), "sess-1", LoginInput{Email: "a@b.com"})
	require.NoError(t, err)
	require.NotNil(t, state.User)
	assert.Equal(t, "Sam", state.User.FirstName)
	assert.Equal(t, "Charmz", state.User.LastName)
}

func TestLoginKeepsProvidedNames(t *testing.T) {
	svc := newTestService(t, &fakeShop{}, 0)

	state, err := svc.Login(context.Background(), "sess-1", LoginInput{
		Email:     "a@b.com",
		FirstName: "Priya",
		LastName:  "Rao",
	})
	require.NoError(t, err)
	assert.Equal(t, "Priya", state.User.FirstName)
	assert.Equal(t, "Rao", state.User.LastName)
}

func TestLoginHashesPassword(t *testing.T) {
	svc := newTestService(t, &fakeShop{}, 0)

	state, err := svc.Login(context.Background(), "sess-1", LoginInput{
		Email:    "a@b.com",
		Password: "hunter2",
	})
	require.NoError(t, err)
	require.NotEmpty(t, state.User.PasswordHash)
	assert.True(t, strings.HasPrefix(state.User.PasswordHash, "$argon2id$"))

	ok, err := security.VerifyPassword("hunter2", state.User.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoginNormalizesEmail(t *testing.T) {
	svc := newTestService(t, &fakeShop{}, 0)

	state, err := svc.Login(context.Background(), "sess-1", LoginInput{Email: "  ShOpPeR@Example.COM "})
	require.NoError(t, err)
	assert.Equal(t, "shopper@example.com", state.User.Email)
}

func TestLoginRequiresEmail(t *testing.T) {
	svc := newTestService(t, &fakeShop{}, 0)

	_, err := svc.Login(context.Background(), "sess-1", LoginInput{})
	assert.Error(t, err)
}

func TestLoginClosesAuthPanel(t *testing.T) {
	store := &fakeShop{}
	store.state = shop.Apply(shop.State{}, shop.SetVisibility{Panel: shop.PanelAuth, Open: true})
	svc := newTestService(t, store, 0)

	state, err := svc.Login(context.Background(), "sess-1", LoginInput{Email: "a@b.com"})
	require.NoError(t, err)
	assert.False(t, state.Visibility.AuthOpen)
}

func TestLoginHonorsContextCancellation(t *testing.T) {
	svc := newTestService(t, &fakeShop{}, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := svc.Login(ctx, "sess-1", LoginInput{Email: "a@b.com"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSignupCarriesProfileFields(t *testing.T) {
	svc := newTestService(t, &fakeShop{}, 0)

	state, err := svc.Signup(context.Background(), "sess-1", SignupInput{
		Email:     "new@example.com",
		Password:  "secret",
		FirstName: "Asha",
		LastName:  "Menon",
		Age:       27,
	})
	require.NoError(t, err)
	require.NotNil(t, state.User)
	assert.Equal(t, "Asha", state.User.FirstName)
	assert.Equal(t, 27, state.User.Age)
	assert.True(t, state.User.IsLoggedIn)
}

func TestRecoverAlwaysReportsSent(t *testing.T) {
	svc := newTestService(t, &fakeShop{}, 0)

	message, err := svc.Recover(context.Background(), "whoever@example.com")
	require.NoError(t, err)
	assert.Equal(t, RecoveryMessage, message)
}

func TestRecoverRequiresEmail(t *testing.T) {
	svc := newTestService(t, &fakeShop{}, 0)

	_, err := svc.Recover(context.Background(), " ")
	assert.Error(t, err)
}

func TestLogoutClearsUserKeepsCart(t *testing.T) {
	store := &fakeShop{}
	store.state = shop.Apply(shop.State{}, shop.AddToCart{
		Product: models.Product{ID: "b1", Name: "Aurora Beaded Bracelet", Category: "Bracelets", Price: "₹499"},
	})
	svc := newTestService(t, store, 0)

	state, err := svc.Login(context.Background(), "sess-1", LoginInput{Email: "a@b.com"})
	require.NoError(t, err)
	require.NotNil(t, state.User)

	state, err = svc.Logout(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Nil(t, state.User)
	assert.Len(t, state.Cart, 1)
}
