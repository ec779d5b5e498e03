package ports

import (
	"context"

	"uxstat/domain/research"
)

// ResultReaderPort provides read-only access to raw study results from an
// ingestion source (workbook, export file, upstream service). The analytics
// core consumes plain collections and never reaches back into the source.
type ResultReaderPort interface {
	// ReadResultSet loads every supported method collection the source holds.
	// Missing sheets/sections yield empty collections, not errors.
	ReadResultSet(ctx context.Context) (research.ResultSet, error)

	// ReadCardSorts loads only the card-sort results
	ReadCardSorts(ctx context.Context) ([]research.CardSortResult, error)
}
