package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"uxstat/adapters/stats/agreement"
	"uxstat/adapters/stats/cluster"
	"uxstat/adapters/stats/similarity"
	"uxstat/domain/analysis"
	"uxstat/domain/core"
	"uxstat/domain/research"
	"uxstat/internal"
)

// SortAnalysisOptions carries the tunables for a card-sort analysis run
type SortAnalysisOptions struct {
	CompletenessThreshold float64
	Linkage               cluster.Linkage
}

// DefaultSortAnalysisOptions returns the stock analysis options
func DefaultSortAnalysisOptions() SortAnalysisOptions {
	return SortAnalysisOptions{
		CompletenessThreshold: agreement.DefaultCompletenessThreshold,
		Linkage:               cluster.LinkageAverage,
	}
}

// SortAnalysisService composes the card-sort analytics into one report:
// similarity matrix, dendrogram, per-card agreement, kappa, outliers, and
// data quality. Every component is a pure transform, so the independent ones
// fan out on an errgroup purely for responsiveness; output never depends on
// execution order.
type SortAnalysisService struct {
	builder   *similarity.Builder
	clusterer *cluster.Clusterer
	analyzer  *agreement.Analyzer
	options   SortAnalysisOptions
	logger    *internal.Logger
}

// NewSortAnalysisService creates the service; a zero Linkage falls back to
// average (UPGMA).
func NewSortAnalysisService(options SortAnalysisOptions, logger *internal.Logger) (*SortAnalysisService, error) {
	clusterer, err := cluster.NewClustererWithLinkage(options.Linkage)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SortAnalysisService{
		builder:   similarity.NewBuilder(),
		clusterer: clusterer,
		analyzer:  agreement.NewAnalyzer(),
		options:   options,
		logger:    logger,
	}, nil
}

// Analyze runs the full card-sort pipeline over one immutable input
// snapshot. Insufficient data degrades to empty report sections; the only
// error path is a dendrogram that fails its shape validation.
func (s *SortAnalysisService) Analyze(ctx context.Context, results []research.CardSortResult) (*analysis.SortAnalysisReport, error) {
	report := &analysis.SortAnalysisReport{
		InputHash: contentHash(results),
		CreatedAt: core.Now(),
	}
	s.logger.Info("card-sort analysis started: %d results, hash %.12s",
		len(results), report.InputHash.String())

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		matrix := s.builder.Build(results)
		report.Similarity = matrix
		dendrogram, err := s.clusterer.Cluster(matrix)
		if err != nil {
			return err
		}
		report.Dendrogram = dendrogram
		return nil
	})
	g.Go(func() error {
		report.Agreement = s.analyzer.Analyze(results)
		return nil
	})
	g.Go(func() error {
		report.Kappa = s.analyzer.CohensKappa(results)
		return nil
	})
	g.Go(func() error {
		report.Outliers = s.analyzer.DetectOutliers(results)
		return nil
	})
	g.Go(func() error {
		report.Quality = s.analyzer.Quality(results, s.options.CompletenessThreshold)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("card-sort analysis finished: deck %d, kappa %.3f (%s), %d outliers",
		report.Similarity.Size(), report.Kappa.Kappa, report.Kappa.Interpretation,
		len(report.Outliers.Outliers))
	return report, nil
}

// contentHash builds the deterministic memoization key for an input snapshot
func contentHash(results []research.CardSortResult) core.ResultSetHash {
	records := make([]string, 0, len(results))
	for _, result := range results {
		records = append(records, result.CanonicalString())
	}
	return core.ComputeResultSetHash(records)
}
