package cache

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/c9s/connectors/pkg/types"
)

const DefaultMemoryExpiry = 5 * time.Minute

// MemoryStore keeps market snapshots in process memory. It lets several
// exchange instances of one process share a single discovery result.
type MemoryStore struct {
	mu        sync.Mutex
	snapshots map[string]types.MarketSnapshot

	expiry time.Duration
	now    func() time.Time
}

func NewMemoryStore(expiry time.Duration) *MemoryStore {
	if expiry <= 0 {
		expiry = DefaultMemoryExpiry
	}

	return &MemoryStore{
		snapshots: make(map[string]types.MarketSnapshot),
		expiry:    expiry,
		now:       time.Now,
	}
}

// Load returns nil when there is no snapshot or it is older than the expiry.
func (c *MemoryStore) Load(_ context.Context, exchange string) (*types.MarketSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot, ok := c.snapshots[exchange]
	if !ok {
		return nil, nil
	}

	if c.now().Sub(snapshot.UpdatedAt) > c.expiry {
		log.Debugf("market snapshot of %s expired", exchange)
		delete(c.snapshots, exchange)
		return nil, nil
	}

	copied := types.MarketSnapshot{
		Markets:    make(types.MarketMap, len(snapshot.Markets)),
		Currencies: make(types.CurrencyMap, len(snapshot.Currencies)),
		UpdatedAt:  snapshot.UpdatedAt,
	}
	for key, val := range snapshot.Markets {
		copied.Markets[key] = val
	}
	for key, val := range snapshot.Currencies {
		copied.Currencies[key] = val
	}
	return &copied, nil
}

func (c *MemoryStore) Save(_ context.Context, exchange string, snapshot types.MarketSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if snapshot.UpdatedAt.IsZero() {
		snapshot.UpdatedAt = c.now()
	}

	c.snapshots[exchange] = snapshot
	return nil
}
