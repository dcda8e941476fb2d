package model

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"plaquerisk/domain/dataset"
	"plaquerisk/domain/feature"
	"plaquerisk/internal/testkit"
)

func TestCachedClassifier_MemoizesSingleRowQueries(t *testing.T) {
	fake := &testkit.FakeClassifier{Score: testkit.ConstantScore(0.42)}
	cached, err := NewCachedClassifier(fake, 16)
	if err != nil {
		t.Fatal(err)
	}
	schema := feature.ClinicalSchema()
	ctx := context.Background()

	query := singleRowQuery(schema, nil)
	for i := 0; i < 3; i++ {
		if _, err := cached.PredictProba(ctx, query); err != nil {
			t.Fatal(err)
		}
	}

	if got := fake.Calls(); got != 1 {
		t.Errorf("expected one delegated call, got %d", got)
	}
	hits, misses := cached.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("expected 2 hits and 1 miss, got %d/%d", hits, misses)
	}
}

func TestCachedClassifier_DistinctProfilesMiss(t *testing.T) {
	fake := &testkit.FakeClassifier{Score: testkit.ConstantScore(0.42)}
	cached, err := NewCachedClassifier(fake, 16)
	if err != nil {
		t.Fatal(err)
	}
	schema := feature.ClinicalSchema()
	ctx := context.Background()

	if _, err := cached.PredictProba(ctx, singleRowQuery(schema, nil)); err != nil {
		t.Fatal(err)
	}
	if _, err := cached.PredictProba(ctx, singleRowQuery(schema, map[string]feature.Value{
		feature.FeatureAge: feature.NewIntegerValue(71),
	})); err != nil {
		t.Fatal(err)
	}

	if got := fake.Calls(); got != 2 {
		t.Errorf("expected both queries delegated, got %d", got)
	}
}

func TestCachedClassifier_BatchQueriesPassThrough(t *testing.T) {
	fake := &testkit.FakeClassifier{Score: testkit.ConstantScore(0.42)}
	cached, err := NewCachedClassifier(fake, 16)
	if err != nil {
		t.Fatal(err)
	}
	schema := feature.ClinicalSchema()
	ctx := context.Background()

	p := feature.DefaultProfile(schema)
	batch := dataset.FromProfiles(schema, p, p.With(feature.FeatureAge, feature.NewIntegerValue(71)))
	for i := 0; i < 2; i++ {
		if _, err := cached.PredictProba(ctx, batch); err != nil {
			t.Fatal(err)
		}
	}

	if got := fake.Calls(); got != 2 {
		t.Errorf("batch queries must not be cached, got %d delegated calls", got)
	}
	hits, misses := cached.Stats()
	if hits != 0 || misses != 0 {
		t.Errorf("batch queries must not touch cache stats, got %d/%d", hits, misses)
	}
}

func TestCachedClassifier_CollectorsTrackHitsAndMisses(t *testing.T) {
	fake := &testkit.FakeClassifier{Score: testkit.ConstantScore(0.42)}
	cached, err := NewCachedClassifier(fake, 16)
	if err != nil {
		t.Fatal(err)
	}
	hitCounter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_cache_hits"})
	missCounter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_cache_misses"})
	cached.WithCollectors(hitCounter, missCounter)

	schema := feature.ClinicalSchema()
	ctx := context.Background()

	query := singleRowQuery(schema, nil)
	for i := 0; i < 3; i++ {
		if _, err := cached.PredictProba(ctx, query); err != nil {
			t.Fatal(err)
		}
	}

	if got := testutil.ToFloat64(hitCounter); got != 2 {
		t.Errorf("expected the hit counter at 2, got %v", got)
	}
	if got := testutil.ToFloat64(missCounter); got != 1 {
		t.Errorf("expected the miss counter at 1, got %v", got)
	}
}

func TestCachedClassifier_ErrorsAreNotCached(t *testing.T) {
	fake := &testkit.FakeClassifier{Err: context.DeadlineExceeded}
	cached, err := NewCachedClassifier(fake, 16)
	if err != nil {
		t.Fatal(err)
	}
	schema := feature.ClinicalSchema()
	ctx := context.Background()

	query := singleRowQuery(schema, nil)
	for i := 0; i < 2; i++ {
		if _, err := cached.PredictProba(ctx, query); err == nil {
			t.Fatal("expected error from failing classifier")
		}
	}

	if got := fake.Calls(); got != 2 {
		t.Errorf("failed queries must be retried against the inner classifier, got %d", got)
	}
}
