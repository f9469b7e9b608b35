package wagering

import (
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/forumkit/wagerhall/internal/domain"
	"github.com/forumkit/wagerhall/internal/repository"
)

// listCache memoizes event listings per filter. Any mutation purges the
// whole cache; correctness never depends on it.
type listCache struct {
	lru *expirable.LRU[string, []domain.Event]
}

func newListCache(size int, ttl time.Duration) *listCache {
	return &listCache{
		lru: expirable.NewLRU[string, []domain.Event](size, nil, ttl),
	}
}

func cacheKey(filter repository.EventFilter) string {
	status, kind, category := "*", "*", "*"
	if filter.Status != nil {
		status = string(*filter.Status)
	}
	if filter.Kind != nil {
		kind = string(*filter.Kind)
	}
	if filter.Category != nil {
		category = *filter.Category
	}
	return fmt.Sprintf("%s|%s|%s", status, kind, category)
}

func (c *listCache) get(filter repository.EventFilter) ([]domain.Event, bool) {
	return c.lru.Get(cacheKey(filter))
}

func (c *listCache) add(filter repository.EventFilter, events []domain.Event) {
	c.lru.Add(cacheKey(filter), events)
}

func (c *listCache) purge() {
	c.lru.Purge()
}
