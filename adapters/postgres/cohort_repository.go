// Package postgres serves historical cohort data out of PostgreSQL. It is
// the database-backed counterpart of the tabular file reader: both expose
// the same CohortSource port, so baseline building does not care where the
// cohort lives.
package postgres

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"plaquerisk/domain/dataset"
	"plaquerisk/domain/feature"
	"plaquerisk/ports"
)

// DefaultCohortTable is the table queried when none is configured.
const DefaultCohortTable = "patient_cohort"

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// cohortRepository implements the CohortSource interface over a cohort
// table whose columns are named after the clinical features.
type cohortRepository struct {
	db     *sqlx.DB
	table  string
	schema feature.Schema
}

// NewCohortRepository creates a cohort source reading from the given table.
func NewCohortRepository(db *sqlx.DB, table string, schema feature.Schema) (ports.CohortSource, error) {
	if table == "" {
		table = DefaultCohortTable
	}
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid cohort table name: %q", table)
	}
	return &cohortRepository{db: db, table: table, schema: schema}, nil
}

// Connect opens a pooled connection and verifies it.
func Connect(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// FetchCohort reads every cohort row into a typed frame. NULL cells become
// missing values; everything else is coerced to the declared feature kind.
func (r *cohortRepository) FetchCohort(ctx context.Context) (*dataset.Frame, error) {
	columns := r.schema.Names()
	query := fmt.Sprintf(`SELECT %s FROM %s`, strings.Join(columns, ", "), r.table)

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cohort table %s: %w", r.table, err)
	}
	defer rows.Close()

	frame := dataset.NewFrame(columns)
	for rows.Next() {
		raw, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan cohort row: %w", err)
		}
		row := make([]feature.Value, len(columns))
		for i := range columns {
			field, _ := r.schema.Lookup(columns[i])
			row[i] = feature.CoerceRaw(field, normalizeSQLValue(raw[i]))
		}
		frame.AppendRow(row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cohort row iteration failed: %w", err)
	}
	return frame, nil
}

// normalizeSQLValue unwraps driver-level representations. lib/pq hands
// text and numeric columns back as []byte.
func normalizeSQLValue(raw interface{}) interface{} {
	if b, ok := raw.([]byte); ok {
		return string(b)
	}
	return raw
}
