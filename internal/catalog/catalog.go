package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"boostbot/internal/agency"
	"boostbot/internal/models"
)

// ErrServiceNotFound means a callback referenced a service id that the
// current catalog does not carry, typically after a reload dropped it.
var ErrServiceNotFound = errors.New("service no longer available")

// Fetcher supplies the wholesale service list.
type Fetcher interface {
	Services(ctx context.Context) ([]agency.RemoteService, error)
}

// Catalog is the in-memory service tree grouped platform -> category.
// Load replaces the whole snapshot atomically; readers in flight keep
// the old view.
type Catalog struct {
	fetcher Fetcher
	logger  *zap.Logger

	mu   sync.RWMutex
	byID map[int64]*models.Service
	tree map[string]map[string][]*models.Service
}

// New creates an empty catalog backed by the given fetcher.
func New(fetcher Fetcher, logger *zap.Logger) *Catalog {
	return &Catalog{
		fetcher: fetcher,
		logger:  logger,
		byID:    make(map[int64]*models.Service),
		tree:    make(map[string]map[string][]*models.Service),
	}
}

// Load fetches the wholesale catalog and replaces the current snapshot.
// On error the previous snapshot stays in place.
func (c *Catalog) Load(ctx context.Context) error {
	remote, err := c.fetcher.Services(ctx)
	if err != nil {
		return fmt.Errorf("catalog load: %w", err)
	}

	byID := make(map[int64]*models.Service, len(remote))
	tree := make(map[string]map[string][]*models.Service)
	skipped := 0

	for _, r := range remote {
		platform, category, ok := Classify(r.Name)
		if !ok {
			skipped++
			continue
		}
		svc := &models.Service{
			ID:          r.ID,
			Platform:    platform,
			Category:    category,
			Name:        r.Name,
			Rate:        r.Rate,
			Min:         r.Min,
			Max:         r.Max,
			Description: r.Description,
			Refill:      r.Refill,
			Cancel:      r.Cancel,
		}
		byID[svc.ID] = svc
		if tree[platform] == nil {
			tree[platform] = make(map[string][]*models.Service)
		}
		tree[platform][category] = append(tree[platform][category], svc)
	}

	for _, cats := range tree {
		for _, svcs := range cats {
			sort.Slice(svcs, func(i, j int) bool { return svcs[i].Rate < svcs[j].Rate })
		}
	}

	c.mu.Lock()
	c.byID = byID
	c.tree = tree
	c.mu.Unlock()

	c.logger.Info("catalog loaded",
		zap.Int("services", len(byID)),
		zap.Int("skipped", skipped),
		zap.Int("platforms", len(tree)))
	return nil
}

// Find returns the service for an id.
func (c *Catalog) Find(id int64) (*models.Service, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	svc, ok := c.byID[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

// Platforms returns the platform names, sorted.
func (c *Catalog) Platforms() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.tree))
	for p := range c.tree {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Categories returns the category names under a platform, sorted.
func (c *Catalog) Categories(platform string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cats := c.tree[platform]
	out := make([]string, 0, len(cats))
	for cat := range cats {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// Services returns the services under a platform and category, cheapest
// first.
func (c *Catalog) Services(platform, category string) []*models.Service {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tree[platform][category]
}

// Count returns the number of loaded services.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}
