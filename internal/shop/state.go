package shop

import (
	"github.com/samcharmz/charmz-backend/pkg/db/models"
)

// CartLine is one product's accumulated quantity in the cart. The product
// fields are denormalized onto the line, matching the persisted document
// shape.
type CartLine struct {
	models.Product
	Quantity int `json:"quantity"`
}

// User is the mock-authenticated shopper profile. The password hash is kept
// out of API payloads by the controller DTOs; it only travels to the
// snapshot store.
type User struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Age          int    `json:"age,omitempty"`
	PasswordHash string `json:"password_hash,omitempty"`
	IsLoggedIn   bool   `json:"is_logged_in"`
}

// Visibility holds the drawer/modal open flags. These never persist; every
// hydration starts with all panels closed.
type Visibility struct {
	CartOpen     bool `json:"cart_open"`
	WishlistOpen bool `json:"wishlist_open"`
	AuthOpen     bool `json:"auth_open"`
	CheckoutOpen bool `json:"checkout_open"`
	PolicyOpen   bool `json:"policy_open"`
}

// State is the full shopping state for one session. Cart preserves insertion
// order and holds at most one line per product id; the wishlist is a set of
// full product references keyed by id.
type State struct {
	Cart       []CartLine       `json:"cart"`
	Wishlist   []models.Product `json:"wishlist"`
	User       *User            `json:"user"`
	Visibility Visibility       `json:"visibility"`
}

// CartQuantity returns the line quantity for the product id, or 0.
func (s State) CartQuantity(productID string) int {
	for _, line := range s.Cart {
		if line.ID == productID {
			return line.Quantity
		}
	}
	return 0
}

// InWishlist reports whether the product id is wishlisted.
func (s State) InWishlist(productID string) bool {
	for _, p := range s.Wishlist {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// CartCount is the total quantity across all lines.
func (s State) CartCount() int {
	total := 0
	for _, line := range s.Cart {
		total += line.Quantity
	}
	return total
}

// clone returns a state whose slices are safe to mutate independently.
func (s State) clone() State {
	out := s
	out.Cart = make([]CartLine, len(s.Cart))
	copy(out.Cart, s.Cart)
	out.Wishlist = make([]models.Product, len(s.Wishlist))
	copy(out.Wishlist, s.Wishlist)
	if s.User != nil {
		user := *s.User
		out.User = &user
	}
	return out
}
