package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
)

const policiesFeature = `
Feature: mutation-triggered cache policies
  The cached aggregate lists must stay coherent with entity mutations
  without a full recompute on every create.

  Scenario: creating an entity prepends it to the cached list
    Given a cached list "cards_cache" holding "a,b"
    When entity "c" is created with list-prepend-bounded max 50
    Then the cached list "cards_cache" holds "c,a,b"

  Scenario: the bounded list drops the oldest entry
    Given a cached list "cards_cache" holding "a,b,c"
    When entity "d" is created with list-prepend-bounded max 3
    Then the cached list "cards_cache" holds "d,a,b"

  Scenario: updating an entity deletes its keys
    Given a cached list "cards_cache" holding "a,b"
    And a cached entity under key "card::a"
    When entity "a" is mutated with key-delete over "card::a,cards_cache"
    Then the key "card::a" is gone
    And the key "cards_cache" is gone
`

type policyWorld struct {
	store *memStore
	inv   *Invalidator
}

func (w *policyWorld) reset(*godog.Scenario) {
	w.store = newMemStore()
	w.inv = NewInvalidator(w.store)
}

func (w *policyWorld) aCachedListHolding(key, csv string) error {
	items := make([]listing, 0)
	for _, id := range splitCSV(csv) {
		items = append(items, listing{ID: id})
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return w.store.Set(context.Background(), key, data, 0)
}

func (w *policyWorld) aCachedEntityUnderKey(key string) error {
	return w.store.Set(context.Background(), key, []byte(`{"id":"a"}`), 0)
}

func (w *policyWorld) entityCreatedWithPrepend(id string, max int) error {
	return w.inv.PrependBounded(context.Background(), "cards_cache", listing{ID: id}, max, time.Minute)
}

func (w *policyWorld) entityMutatedWithKeyDelete(_ string, csv string) error {
	return w.inv.DeleteKeys(context.Background(), splitCSV(csv)...)
}

func (w *policyWorld) cachedListHolds(key, csv string) error {
	data, err := w.store.Get(context.Background(), key)
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	var items []listing
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	want := splitCSV(csv)
	if len(items) != len(want) {
		return fmt.Errorf("list %s has %d entries, want %d", key, len(items), len(want))
	}
	for i, id := range want {
		if items[i].ID != id {
			return fmt.Errorf("list %s entry %d is %q, want %q", key, i, items[i].ID, id)
		}
	}
	return nil
}

func (w *policyWorld) keyIsGone(key string) error {
	if _, err := w.store.Get(context.Background(), key); err == nil {
		return fmt.Errorf("key %s still cached", key)
	}
	return nil
}

func splitCSV(csv string) []string {
	if csv == "" {
		return nil
	}
	return strings.Split(csv, ",")
}

func InitializeCachePolicyScenario(ctx *godog.ScenarioContext) {
	w := &policyWorld{}
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		w.reset(sc)
		return c, nil
	})

	ctx.Step(`^a cached list "([^"]*)" holding "([^"]*)"$`, w.aCachedListHolding)
	ctx.Step(`^a cached entity under key "([^"]*)"$`, w.aCachedEntityUnderKey)
	ctx.Step(`^entity "([^"]*)" is created with list-prepend-bounded max (\d+)$`, w.entityCreatedWithPrepend)
	ctx.Step(`^entity "([^"]*)" is mutated with key-delete over "([^"]*)"$`, w.entityMutatedWithKeyDelete)
	ctx.Step(`^the cached list "([^"]*)" holds "([^"]*)"$`, w.cachedListHolds)
	ctx.Step(`^the key "([^"]*)" is gone$`, w.keyIsGone)
}

func TestCachePolicies(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeCachePolicyScenario,
		Options: &godog.Options{
			Format:          "pretty",
			FeatureContents: []godog.Feature{{Name: "policies", Contents: []byte(policiesFeature)}},
			TestingT:        t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("cache policy scenarios failed")
	}
}
