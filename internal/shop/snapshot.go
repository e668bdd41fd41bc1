package shop

import (
	"context"
	"encoding/json"

	"github.com/samcharmz/charmz-backend/pkg/db/models"
)

// Snapshot is the persisted `{cart, wishlist, user}` document. Visibility
// flags are deliberately absent; they reset on every hydration.
type Snapshot struct {
	Cart     []CartLine       `json:"cart"`
	Wishlist []models.Product `json:"wishlist"`
	User     *User            `json:"user"`
}

// SnapshotStore persists raw snapshot documents keyed by session id.
// Implementations live in the snapshot subpackage.
type SnapshotStore interface {
	Load(ctx context.Context, sessionID string) (string, bool, error)
	Save(ctx context.Context, sessionID, document string) error
}

// EncodeSnapshot serializes the data portion of a state.
func EncodeSnapshot(state State) (string, error) {
	snap := Snapshot{
		Cart:     state.Cart,
		Wishlist: state.Wishlist,
		User:     state.User,
	}
	if snap.Cart == nil {
		snap.Cart = []CartLine{}
	}
	if snap.Wishlist == nil {
		snap.Wishlist = []models.Product{}
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// DecodeSnapshot hydrates a state from a stored document. Malformed or
// partial documents degrade to the empty state: no error ever escapes a
// snapshot load.
func DecodeSnapshot(document string) State {
	var snap Snapshot
	if document != "" {
		if err := json.Unmarshal([]byte(document), &snap); err != nil {
			snap = Snapshot{}
		}
	}

	state := State{
		Cart:     snap.Cart,
		Wishlist: snap.Wishlist,
		User:     snap.User,
	}

	// Stored lines predate the quantity clamp in some documents.
	for i, line := range state.Cart {
		if line.Quantity < 1 {
			state.Cart[i].Quantity = 1
		}
	}
	if state.User != nil && !state.User.IsLoggedIn {
		state.User = nil
	}
	return dedupe(state)
}

// dedupe enforces the at-most-once invariants on documents written by older
// builds or edited out of band.
func dedupe(state State) State {
	seen := make(map[string]int, len(state.Cart))
	cart := state.Cart[:0]
	for _, line := range state.Cart {
		if idx, ok := seen[line.ID]; ok {
			cart[idx].Quantity += line.Quantity
			continue
		}
		seen[line.ID] = len(cart)
		cart = append(cart, line)
	}
	state.Cart = cart

	wseen := make(map[string]struct{}, len(state.Wishlist))
	wishlist := state.Wishlist[:0]
	for _, p := range state.Wishlist {
		if _, ok := wseen[p.ID]; ok {
			continue
		}
		wseen[p.ID] = struct{}{}
		wishlist = append(wishlist, p)
	}
	state.Wishlist = wishlist
	return state
}
