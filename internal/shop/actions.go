package shop

import (
	"github.com/samcharmz/charmz-backend/pkg/db/models"
)

// Panel names a drawer or modal whose visibility the shop tracks.
type Panel string

const (
	PanelCart     Panel = "cart"
	PanelWishlist Panel = "wishlist"
	PanelAuth     Panel = "auth"
	PanelCheckout Panel = "checkout"
	PanelPolicy   Panel = "policy"
)

// ValidPanel reports whether p names a known panel.
func ValidPanel(p Panel) bool {
	switch p {
	case PanelCart, PanelWishlist, PanelAuth, PanelCheckout, PanelPolicy:
		return true
	}
	return false
}

// Action is the closed set of shopping-state transitions. Every variant is a
// pure payload; Apply is the only place transitions happen.
type Action interface {
	// Name labels the action in logs and metrics.
	Name() string
	// persists reports whether the variant touches cart/wishlist/user and
	// therefore requires a snapshot write.
	persists() bool
}

// AddToCart inserts a new line or merges quantity into an existing one, and
// forces the cart drawer open. Non-positive quantities are clamped to 1.
type AddToCart struct {
	Product  models.Product
	Quantity int
}

// RemoveFromCart drops the line with the given product id; absent ids are a
// no-op.
type RemoveFromCart struct {
	ProductID string
}

// UpdateQuantity adjusts a line's quantity by Delta, clamped at 1; absent
// ids are a no-op.
type UpdateQuantity struct {
	ProductID string
	Delta     int
}

// ClearCart empties the cart.
type ClearCart struct{}

// ToggleWishlist adds the product to the wishlist when absent and removes it
// when present.
type ToggleWishlist struct {
	Product models.Product
}

// MoveToCart performs the add-to-cart merge for quantity 1 and removes the
// product from the wishlist in the same transition.
type MoveToCart struct {
	Product models.Product
}

// Login stores the shopper profile and closes the auth modal.
type Login struct {
	User User
}

// Logout clears the shopper profile.
type Logout struct{}

// SetVisibility opens or closes one panel.
type SetVisibility struct {
	Panel Panel
	Open  bool
}

func (AddToCart) Name() string      { return "add_to_cart" }
func (RemoveFromCart) Name() string { return "remove_from_cart" }
func (UpdateQuantity) Name() string { return "update_quantity" }
func (ClearCart) Name() string      { return "clear_cart" }
func (ToggleWishlist) Name() string { return "toggle_wishlist" }
func (MoveToCart) Name() string     { return "move_to_cart" }
func (Login) Name() string          { return "login" }
func (Logout) Name() string         { return "logout" }
func (SetVisibility) Name() string  { return "set_visibility" }

func (AddToCart) persists() bool      { return true }
func (RemoveFromCart) persists() bool { return true }
func (UpdateQuantity) persists() bool { return true }
func (ClearCart) persists() bool      { return true }
func (ToggleWishlist) persists() bool { return true }
func (MoveToCart) persists() bool     { return true }
func (Login) persists() bool          { return true }
func (Logout) persists() bool         { return true }
func (SetVisibility) persists() bool  { return false }

// Apply is a total function from (state, action) to the next state. It never
// mutates its input and has no disallowed transitions.
func Apply(state State, action Action) State {
	next := state.clone()

	switch a := action.(type) {
	case AddToCart:
		next.Cart = mergeLine(next.Cart, a.Product, clampQuantity(a.Quantity))
		next.Visibility.CartOpen = true

	case RemoveFromCart:
		next.Cart = removeLine(next.Cart, a.ProductID)

	case UpdateQuantity:
		for i, line := range next.Cart {
			if line.ID == a.ProductID {
				qty := line.Quantity + a.Delta
				if qty < 1 {
					qty = 1
				}
				next.Cart[i].Quantity = qty
				break
			}
		}

	case ClearCart:
		next.Cart = nil

	case ToggleWishlist:
		if next.InWishlist(a.Product.ID) {
			next.Wishlist = removeProduct(next.Wishlist, a.Product.ID)
		} else {
			next.Wishlist = append(next.Wishlist, a.Product)
		}

	case MoveToCart:
		next.Cart = mergeLine(next.Cart, a.Product, 1)
		next.Wishlist = removeProduct(next.Wishlist, a.Product.ID)
		next.Visibility.CartOpen = true

	case Login:
		user := a.User
		user.IsLoggedIn = true
		next.User = &user
		next.Visibility.AuthOpen = false

	case Logout:
		next.User = nil

	case SetVisibility:
		switch a.Panel {
		case PanelCart:
			next.Visibility.CartOpen = a.Open
		case PanelWishlist:
			next.Visibility.WishlistOpen = a.Open
		case PanelAuth:
			next.Visibility.AuthOpen = a.Open
		case PanelCheckout:
			next.Visibility.CheckoutOpen = a.Open
		case PanelPolicy:
			next.Visibility.PolicyOpen = a.Open
		}
	}

	return next
}

func clampQuantity(qty int) int {
	if qty < 1 {
		return 1
	}
	return qty
}

func mergeLine(cart []CartLine, product models.Product, qty int) []CartLine {
	for i, line := range cart {
		if line.ID == product.ID {
			cart[i].Quantity += qty
			return cart
		}
	}
	return append(cart, CartLine{Product: product, Quantity: qty})
}

func removeLine(cart []CartLine, productID string) []CartLine {
	out := cart[:0]
	for _, line := range cart {
		if line.ID != productID {
			out = append(out, line)
		}
	}
	return out
}

func removeProduct(list []models.Product, productID string) []models.Product {
	out := list[:0]
	for _, p := range list {
		if p.ID != productID {
			out = append(out, p)
		}
	}
	return out
}
