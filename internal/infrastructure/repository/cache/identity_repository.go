package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/rift-ledger/internal/domain/identity"
	basecache "github.com/riskibarqy/rift-ledger/internal/platform/cache"
)

type cachedIdentityByID struct {
	value  identity.Identity
	exists bool
}

// IdentityRepository caches GetByID for the player match page. Every write
// that can change a row purges the cache; reads used by ingestion pass
// straight through.
type IdentityRepository struct {
	next  identity.Repository
	cache *basecache.Store[cachedIdentityByID]
}

var _ identity.Repository = (*IdentityRepository)(nil)

func NewIdentityRepository(next identity.Repository, ttl time.Duration) *IdentityRepository {
	return &IdentityRepository{next: next, cache: basecache.NewStore[cachedIdentityByID](ttl)}
}

func (r *IdentityRepository) GetByID(ctx context.Context, id int64) (identity.Identity, bool, error) {
	key := "identity:id:" + strconv.FormatInt(id, 10)
	cached, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (cachedIdentityByID, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return cachedIdentityByID{}, err
		}
		return cachedIdentityByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return identity.Identity{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *IdentityRepository) FindByKeys(ctx context.Context, puuids []string) (map[string]identity.Stored, error) {
	return r.next.FindByKeys(ctx, puuids)
}

func (r *IdentityRepository) ListDisplayConflicts(ctx context.Context, puuids []string) ([]identity.Identity, error) {
	return r.next.ListDisplayConflicts(ctx, puuids)
}

func (r *IdentityRepository) Upsert(ctx context.Context, observations []identity.Observation) (map[string]int64, error) {
	out, err := r.next.Upsert(ctx, observations)
	r.purge(len(observations))
	return out, err
}

func (r *IdentityRepository) UpdateNewer(ctx context.Context, observations []identity.Observation) (int, error) {
	n, err := r.next.UpdateNewer(ctx, observations)
	r.purge(n)
	return n, err
}

func (r *IdentityRepository) UpdateNames(ctx context.Context, observations []identity.Observation) (int, error) {
	n, err := r.next.UpdateNames(ctx, observations)
	r.purge(n)
	return n, err
}

func (r *IdentityRepository) purge(changed int) {
	if changed > 0 {
		r.cache.Purge()
	}
}
