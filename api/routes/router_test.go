package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/samcharmz/charmz-backend/api/middleware"
	authsvc "github.com/samcharmz/charmz-backend/internal/auth"
	"github.com/samcharmz/charmz-backend/internal/catalog"
	checkoutsvc "github.com/samcharmz/charmz-backend/internal/checkout"
	"github.com/samcharmz/charmz-backend/internal/shop"
	"github.com/samcharmz/charmz-backend/pkg/config"
	"github.com/samcharmz/charmz-backend/pkg/db/models"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type memorySnapshots struct {
	mu   sync.Mutex
	docs map[string]string
}

func (m *memorySnapshots) Load(_ context.Context, sessionID string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[sessionID]
	return doc, ok, nil
}

func (m *memorySnapshots) Save(_ context.Context, sessionID, document string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[sessionID] = document
	return nil
}

type memoryCatalog struct {
	products []models.Product
}

func (m *memoryCatalog) ListAll(context.Context) ([]models.Product, error) {
	out := make([]models.Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

func (m *memoryCatalog) FindByID(_ context.Context, id string) (*models.Product, error) {
	for i := range m.products {
		if m.products[i].ID == id {
			return &m.products[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type memoryOrders struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*models.Order
}

func (m *memoryOrders) Create(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	return nil
}

func (m *memoryOrders) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if order, ok := m.orders[id]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "dev"
	cfg.App.Port = "0"
	cfg.JWT.Secret = "router-test-secret"
	cfg.JWT.Issuer = "charmz"
	cfg.JWT.ExpirationMinutes = 60
	return cfg
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	shopService, err := shop.NewService(shop.ServiceParams{
		Store: &memorySnapshots{docs: map[string]string{}},
	})
	require.NoError(t, err)

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo: &memoryCatalog{products: catalog.SeedProducts()},
	})
	require.NoError(t, err)

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		Shop: shopService,
		Password: config.PasswordConfig{
			ArgonMemoryKB:    8,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     8,
			ArgonKeyLen:      16,
		},
	})
	require.NoError(t, err)

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Shop: shopService,
		Repo: &memoryOrders{orders: map[uuid.UUID]*models.Order{}},
	})
	require.NoError(t, err)

	return NewRouter(testConfig(), nil, stubPinger{}, nil, nil, shopService, catalogService, authService, checkoutService)
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doJSON(t *testing.T, router http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(middleware.SessionHeader, token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	}
	return rec, env
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/health/live", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doJSON(t, router, http.MethodGet, "/api/v1/catalog?category=Bracelets&sort=price_asc", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Products []models.Product `json:"products"`
		Count    int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.NotZero(t, payload.Count)
	for _, p := range payload.Products {
		assert.Equal(t, "Bracelets", p.Category)
	}

	rec, env = doJSON(t, router, http.MethodGet, "/api/v1/catalog/b1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var product models.Product
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.Equal(t, "b1", product.ID)

	rec, env = doJSON(t, router, http.MethodGet, "/api/v1/catalog/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
}

type statePayload struct {
	Cart []struct {
		ID       string `json:"id"`
		Quantity int    `json:"quantity"`
	} `json:"cart"`
	CartCount int `json:"cart_count"`
	Wishlist  []struct {
		ID string `json:"id"`
	} `json:"wishlist"`
	User *struct {
		FirstName    string `json:"first_name"`
		Email        string `json:"email"`
		PasswordHash string `json:"password_hash"`
		IsLoggedIn   bool   `json:"is_logged_in"`
	} `json:"user"`
	Visibility struct {
		CartOpen bool `json:"cart_open"`
	} `json:"visibility"`
}

func TestShopSessionFlow(t *testing.T) {
	router := newTestRouter(t)

	// First contact mints a session token.
	rec, env := doJSON(t, router, http.MethodGet, "/api/v1/shop", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Header().Get(middleware.SessionHeader)
	require.NotEmpty(t, token)

	var state statePayload
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Empty(t, state.Cart)

	// Adding to cart merges and opens the drawer.
	rec, env = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", token, `{"product_id":"b1","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &state))
	require.Len(t, state.Cart, 1)
	assert.Equal(t, 2, state.Cart[0].Quantity)
	assert.True(t, state.Visibility.CartOpen)

	rec, env = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", token, `{"product_id":"b1","quantity":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &state))
	require.Len(t, state.Cart, 1)
	assert.Equal(t, 3, state.Cart[0].Quantity)

	// Quantity clamps at 1.
	rec, env = doJSON(t, router, http.MethodPatch, "/api/v1/cart/items/b1", token, `{"delta":-10}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, 1, state.Cart[0].Quantity)

	// Unknown products are rejected before they reach the cart.
	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", token, `{"product_id":"zz","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Wishlist toggle on, then move-to-cart drains it.
	rec, env = doJSON(t, router, http.MethodPost, "/api/v1/wishlist/toggle", token, `{"product_id":"h2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &state))
	require.Len(t, state.Wishlist, 1)

	rec, env = doJSON(t, router, http.MethodPost, "/api/v1/wishlist/h2/move-to-cart", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Empty(t, state.Wishlist)
	require.Len(t, state.Cart, 2)

	// Clearing the cart empties it.
	rec, env = doJSON(t, router, http.MethodDelete, "/api/v1/cart", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Empty(t, state.Cart)
}

func TestUIVisibilityEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/shop", "", "")
	token := rec.Header().Get(middleware.SessionHeader)

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/ui/wishlist", token, `{"open":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var state struct {
		Visibility struct {
			WishlistOpen bool `json:"wishlist_open"`
		} `json:"visibility"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.True(t, state.Visibility.WishlistOpen)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/ui/garbage", token, `{"open":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthFlow(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/shop", "", "")
	token := rec.Header().Get(middleware.SessionHeader)

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", token, `{"email":"a@b.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var state statePayload
	require.NoError(t, json.Unmarshal(env.Data, &state))
	require.NotNil(t, state.User)
	assert.True(t, state.User.IsLoggedIn)
	assert.Equal(t, "Sam", state.User.FirstName)
	assert.Empty(t, state.User.PasswordHash, "hash must not leave the server")

	rec, env = doJSON(t, router, http.MethodPost, "/api/v1/auth/recover", token, `{"email":"a@b.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Nil(t, state.User)
}

func TestCheckoutFlow(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/shop", "", "")
	token := rec.Header().Get(middleware.SessionHeader)

	// Empty cart is rejected.
	body := `{"email":"a@b.com","full_name":"Sam Charmz","address":"1 Lane","city":"Pune","postcode":"411001"}`
	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/checkout", token, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", token, `{"product_id":"b1","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/checkout", token, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var confirmation struct {
		Order struct {
			ID    string `json:"ID"`
			Total string `json:"Total"`
		} `json:"order"`
		State statePayload `json:"state"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &confirmation))
	assert.Empty(t, confirmation.State.Cart)
	require.NotEmpty(t, confirmation.Order.ID)

	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/orders/"+confirmation.Order.ID, token, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/orders/not-a-uuid", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionsAreIsolatedOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/shop", "", "")
	tokenA := rec.Header().Get(middleware.SessionHeader)
	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/shop", "", "")
	tokenB := rec.Header().Get(middleware.SessionHeader)
	require.NotEqual(t, tokenA, tokenB)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", tokenA, `{"product_id":"b1","quantity":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := doJSON(t, router, http.MethodGet, "/api/v1/shop", tokenB, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var state statePayload
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Empty(t, state.Cart)
}
