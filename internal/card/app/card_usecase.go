package app

import (
	"context"
	"time"

	"marketplace_service/internal/card/domain"
	"marketplace_service/internal/card/repository"
	"marketplace_service/pkg/cache"
	"marketplace_service/pkg/config"
	errprocess "marketplace_service/pkg/err"
)

// Cache key families. Filtered listing variants under allCardsKey are
// not tracked individually; they age out on TTL.
const (
	allCardsKey    = "cards_cache"
	featuredKey    = "featured_cards"
	cardFamily     = "card"
	categoryFamily = "cards_category"
)

// CardUseCase card CRUD with a redis read-through in front of mongo.
// Creates prepend into the cached lists, updates and deletes drop the
// affected keys, the featured list is rewritten in place.
type CardUseCase struct {
	repo        repository.CardRepository
	listCache   *cache.ReadThrough[[]domain.Card]
	cardCache   *cache.ReadThrough[domain.Card]
	invalidator *cache.Invalidator
	bus         InvalidationBus

	ttl     time.Duration
	listMax int
}

// NewCardUseCase create CardUseCase
func NewCardUseCase(repo repository.CardRepository, store cache.Store, bus InvalidationBus, cfg config.CacheConfig) *CardUseCase {
	return &CardUseCase{
		repo:        repo,
		listCache:   cache.NewReadThrough[[]domain.Card](store),
		cardCache:   cache.NewReadThrough[domain.Card](store),
		invalidator: cache.NewInvalidator(store),
		bus:         bus,
		ttl:         time.Duration(cfg.TTLSeconds) * time.Second,
		listMax:     cfg.ListMax,
	}
}

func cardKey(id string) string {
	return cache.Key(cardFamily, id)
}

func categoryKey(category string) string {
	return cache.Key(categoryFamily, category)
}

// ListCards listing filtered by query, served read-through. The empty
// query lands on the aggregate key creates prepend into.
func (uc *CardUseCase) ListCards(ctx context.Context, query domain.CardQuery) ([]domain.Card, error) {
	key := cache.QueryKey(allCardsKey, repository.QuerySignature(query))
	cards, err := uc.listCache.GetOrCompute(ctx, key, uc.ttl, func(ctx context.Context) ([]domain.Card, error) {
		return uc.repo.Find(ctx, query)
	})
	if err != nil {
		return nil, errprocess.Persistence("list cards", err)
	}
	return cards, nil
}

// CardsByCategory one category's listing under its own key family
func (uc *CardUseCase) CardsByCategory(ctx context.Context, category string) ([]domain.Card, error) {
	cards, err := uc.listCache.GetOrCompute(ctx, categoryKey(category), uc.ttl, func(ctx context.Context) ([]domain.Card, error) {
		return uc.repo.Find(ctx, domain.CardQuery{Category: category})
	})
	if err != nil {
		return nil, errprocess.Persistence("list cards by category", err)
	}
	return cards, nil
}

// FeaturedCards the curated front-page list
func (uc *CardUseCase) FeaturedCards(ctx context.Context) ([]domain.Card, error) {
	cards, err := uc.listCache.GetOrCompute(ctx, featuredKey, uc.ttl, func(ctx context.Context) ([]domain.Card, error) {
		return uc.repo.FindFeatured(ctx)
	})
	if err != nil {
		return nil, errprocess.Persistence("list featured cards", err)
	}
	return cards, nil
}

// GetCard one card by id, served read-through
func (uc *CardUseCase) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	card, err := uc.cardCache.GetOrCompute(ctx, cardKey(id), uc.ttl, func(ctx context.Context) (domain.Card, error) {
		found, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			return domain.Card{}, errprocess.Persistence("find card", err)
		}
		if found == nil {
			return domain.Card{}, errprocess.NotFound("card")
		}
		return *found, nil
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// CreateCard persist a new card, prepend it to the cached lists and
// relay the mutation. Cache and bus failures degrade, they never fail
// the create.
func (uc *CardUseCase) CreateCard(ctx context.Context, card *domain.Card) error {
	card.CreatedAt = time.Now().Unix()
	if err := uc.repo.Insert(ctx, card); err != nil {
		return errprocess.Persistence("insert card", err)
	}

	if err := uc.invalidator.PrependBounded(ctx, allCardsKey, card, uc.listMax, uc.ttl); err != nil {
		errprocess.Cache("prepend "+allCardsKey, err)
	}
	if err := uc.invalidator.PrependBounded(ctx, categoryKey(card.Category), card, uc.listMax, uc.ttl); err != nil {
		errprocess.Cache("prepend "+categoryKey(card.Category), err)
	}
	if card.Featured {
		uc.rewriteFeatured(ctx)
	}

	uc.relay(ctx, domain.CardMutation{Action: domain.MutationCreated, CardID: card.ID, Category: card.Category})
	return nil
}

// UpdateCard overwrite a card owned by sellerID and drop every cache
// key that could serve the old version
func (uc *CardUseCase) UpdateCard(ctx context.Context, sellerID string, card *domain.Card) error {
	existing, err := uc.findOwned(ctx, card.ID, sellerID)
	if err != nil {
		return err
	}

	if err := uc.repo.Update(ctx, card); err != nil {
		return errprocess.Persistence("update card", err)
	}

	keys := []string{cardKey(card.ID), allCardsKey, categoryKey(existing.Category)}
	if card.Category != existing.Category {
		keys = append(keys, categoryKey(card.Category))
	}
	if err := uc.invalidator.DeleteKeys(ctx, keys...); err != nil {
		errprocess.Cache("invalidate card "+card.ID, err)
	}
	if card.Featured || existing.Featured {
		uc.rewriteFeatured(ctx)
	}

	uc.relay(ctx, domain.CardMutation{Action: domain.MutationUpdated, CardID: card.ID, Category: existing.Category})
	return nil
}

// DeleteCard remove a card owned by sellerID and its cache keys
func (uc *CardUseCase) DeleteCard(ctx context.Context, sellerID, id string) error {
	existing, err := uc.findOwned(ctx, id, sellerID)
	if err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return errprocess.Persistence("delete card", err)
	}

	if err := uc.invalidator.DeleteKeys(ctx, cardKey(id), allCardsKey, categoryKey(existing.Category)); err != nil {
		errprocess.Cache("invalidate card "+id, err)
	}
	if existing.Featured {
		uc.rewriteFeatured(ctx)
	}

	uc.relay(ctx, domain.CardMutation{Action: domain.MutationDeleted, CardID: id, Category: existing.Category})
	return nil
}

// ApplyMutation drop the cache keys a remote mutation touched; the
// next read recomputes
func (uc *CardUseCase) ApplyMutation(ctx context.Context, mutation domain.CardMutation) {
	if err := uc.invalidator.DeleteKeys(ctx,
		cardKey(mutation.CardID),
		allCardsKey,
		categoryKey(mutation.Category),
		featuredKey,
	); err != nil {
		errprocess.Cache("apply remote mutation "+mutation.CardID, err)
	}
}

func (uc *CardUseCase) rewriteFeatured(ctx context.Context) {
	cards, err := uc.repo.FindFeatured(ctx)
	if err != nil {
		errprocess.Cache("recompute "+featuredKey, err)
		return
	}
	if err := uc.listCache.Put(ctx, featuredKey, cards, uc.ttl); err != nil {
		errprocess.Cache("rewrite "+featuredKey, err)
	}
}

func (uc *CardUseCase) relay(ctx context.Context, mutation domain.CardMutation) {
	if uc.bus == nil {
		return
	}
	if err := uc.bus.Publish(ctx, mutation); err != nil {
		errprocess.Cache("relay mutation "+mutation.CardID, err)
	}
}

func (uc *CardUseCase) findOwned(ctx context.Context, id, sellerID string) (*domain.Card, error) {
	existing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errprocess.Persistence("find card", err)
	}
	if existing == nil {
		return nil, errprocess.NotFound("card")
	}
	if existing.SellerID != sellerID {
		return nil, errprocess.Forbidden("card")
	}
	return existing, nil
}
