package domain

import "time"

const (
	CartStateOpen   = "open"
	CartStateClosed = "closed"
)

// CartType is the resource type name carts are registered under for intents and activity.
const CartType = "cart"

// Cart is a user-owned bag of arbitrary attributes. Closed carts are soft-deleted.
type Cart struct {
	ID         string
	OwnerID    *string
	Attributes map[string]interface{}
	State      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ClosedAt   *time.Time
}

// IsOpen reports whether the cart is still visible to its owner.
func (c Cart) IsOpen() bool {
	return c.State == CartStateOpen
}

// OwnedBy reports whether userID owns the cart.
func (c Cart) OwnedBy(userID string) bool {
	return c.OwnerID != nil && userID != "" && *c.OwnerID == userID
}

// reservedCartKeys are rendered from cart metadata and never stored as attributes.
var reservedCartKeys = map[string]struct{}{
	"uuid":     {},
	"type":     {},
	"owner":    {},
	"state":    {},
	"created":  {},
	"modified": {},
}

// SanitizeAttributes returns a copy of attrs without reserved keys. A nil input yields an empty map.
func SanitizeAttributes(attrs map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(attrs))
	for k, v := range attrs {
		if _, reserved := reservedCartKeys[k]; reserved {
			continue
		}
		out[k] = v
	}
	return out
}
