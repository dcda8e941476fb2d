package ports

import (
	"context"

	"plaquerisk/domain/dataset"
)

// CohortSource supplies historical cohort rows used to build the reference
// profile. Implementations exist for tabular files and for a relational
// store; all of them may return a frame covering only a subset of the
// schema's columns.
type CohortSource interface {
	FetchCohort(ctx context.Context) (*dataset.Frame, error)
}
