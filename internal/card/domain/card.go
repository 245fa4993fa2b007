package domain

// Card a service listing ("gig") a seller offers on the marketplace
type Card struct {
	ID          string `bson:"_id,omitempty" json:"id"`
	SellerID    string `bson:"seller_id" json:"seller_id"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Category    string `bson:"category" json:"category"`
	Cover       string `bson:"cover,omitempty" json:"cover,omitempty"`
	Price       int64  `bson:"price" json:"price"`
	Featured    bool   `bson:"featured" json:"featured"`
	CreatedAt   int64  `bson:"created_at" json:"created_at"`
}

// CardQuery listing filter+sort signature; it doubles as the cache key
// source for derived listings
type CardQuery struct {
	Category string
	Search   string
	MinPrice int64
	MaxPrice int64
	Sort     string
}

// CardMutation the invalidation event relayed to other instances after
// a card write
type CardMutation struct {
	Action   string `json:"action"`
	Origin   string `json:"origin,omitempty"`
	CardID   string `json:"card_id"`
	Category string `json:"category"`
}

// Mutation actions carried on the invalidation bus
const (
	MutationCreated = "created"
	MutationUpdated = "updated"
	MutationDeleted = "deleted"
)
