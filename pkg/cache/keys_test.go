package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "cards_cache", Key("cards_cache"))
	assert.Equal(t, "card::c1", Key("card", "c1"))
	assert.Equal(t, "bookings::user::u1", Key("bookings", "user", "u1"))
}

func TestQueryKey_SortedAndStable(t *testing.T) {
	a := QueryKey("cards", map[string]string{"category": "design", "sort": "price"})
	b := QueryKey("cards", map[string]string{"sort": "price", "category": "design"})
	assert.Equal(t, a, b, "field order must not change the key")
	assert.Equal(t, "cards::category=design::sort=price", a)
}

func TestQueryKey_EmptyValuesSkipped(t *testing.T) {
	got := QueryKey("cards", map[string]string{"category": "design", "sort": ""})
	assert.Equal(t, "cards::category=design", got)
}

func TestQueryKey_NoFields(t *testing.T) {
	assert.Equal(t, "cards", QueryKey("cards", nil))
	assert.Equal(t, "cards", QueryKey("cards", map[string]string{}))
}
