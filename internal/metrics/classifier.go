package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"plaquerisk/domain/dataset"
	"plaquerisk/ports"
)

// instrumentedClassifier counts every probability query that reaches the
// wrapped classifier, and every query that comes back with an error.
type instrumentedClassifier struct {
	inner    ports.Classifier
	queries  prometheus.Counter
	failures prometheus.Counter
}

// InstrumentClassifier wraps a classifier with query and failure counters.
func InstrumentClassifier(inner ports.Classifier, queries, failures prometheus.Counter) ports.Classifier {
	return &instrumentedClassifier{inner: inner, queries: queries, failures: failures}
}

// Version implements ports.Classifier.
func (c *instrumentedClassifier) Version() string { return c.inner.Version() }

// PredictProba implements ports.Classifier.
func (c *instrumentedClassifier) PredictProba(ctx context.Context, query *dataset.Frame) (ports.ProbaFrame, error) {
	c.queries.Inc()
	out, err := c.inner.PredictProba(ctx, query)
	if err != nil {
		c.failures.Inc()
		return ports.ProbaFrame{}, err
	}
	return out, nil
}
