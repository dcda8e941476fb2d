package model

import (
	"context"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"

	"plaquerisk/domain/core"
	"plaquerisk/domain/dataset"
	"plaquerisk/domain/feature"
	"plaquerisk/ports"
)

// CachedClassifier memoizes single-row probability queries of a
// deterministic classifier. The counterfactual loop re-queries the same
// baseline and near-duplicate profiles constantly; a bounded LRU keyed by
// profile fingerprint absorbs that without unbounded memory growth.
//
// Explanations themselves are never cached; only the raw, deterministic
// classifier outputs are.
type CachedClassifier struct {
	inner ports.Classifier
	cache *lru.Cache[core.ProfileHash, ports.ProbaFrame]

	hits   atomic.Int64
	misses atomic.Int64

	hitCounter  prometheus.Counter
	missCounter prometheus.Counter
}

// NewCachedClassifier wraps a classifier with an LRU of the given size.
func NewCachedClassifier(inner ports.Classifier, size int) (*CachedClassifier, error) {
	cache, err := lru.New[core.ProfileHash, ports.ProbaFrame](size)
	if err != nil {
		return nil, err
	}
	return &CachedClassifier{inner: inner, cache: cache}, nil
}

// WithCollectors mirrors hit and miss counts into prometheus counters.
// Either counter may be nil.
func (c *CachedClassifier) WithCollectors(hits, misses prometheus.Counter) *CachedClassifier {
	c.hitCounter = hits
	c.missCounter = misses
	return c
}

// Version implements ports.Classifier.
func (c *CachedClassifier) Version() string { return c.inner.Version() }

// Stats returns cache hit and miss counts.
func (c *CachedClassifier) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// PredictProba implements ports.Classifier. Only single-row queries are
// cached; batch queries pass straight through.
func (c *CachedClassifier) PredictProba(ctx context.Context, query *dataset.Frame) (ports.ProbaFrame, error) {
	if query.NumRows() != 1 {
		return c.inner.PredictProba(ctx, query)
	}

	key := queryFingerprint(query)
	if frame, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		if c.hitCounter != nil {
			c.hitCounter.Inc()
		}
		return frame, nil
	}

	frame, err := c.inner.PredictProba(ctx, query)
	if err != nil {
		return ports.ProbaFrame{}, err
	}
	c.misses.Add(1)
	if c.missCounter != nil {
		c.missCounter.Inc()
	}
	c.cache.Add(key, frame)
	return frame, nil
}

func queryFingerprint(query *dataset.Frame) core.ProfileHash {
	serialized := make(map[string]interface{}, len(query.Columns))
	for i, col := range query.Columns {
		serialized[col] = feature.Serialize(query.Rows[0][i])
	}
	return core.ComputeProfileHash(serialized)
}
