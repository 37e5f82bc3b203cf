package stats

// Package stats computes descriptive statistics over the gene features of
// a record, for the CLI stats report.

import (
	"fmt"
	"strings"

	mstats "github.com/montanaflynn/stats"

	"github.com/yashmgupta/gentext/internal/gene"
	"github.com/yashmgupta/gentext/internal/genbank"
)

// Summary holds per-record descriptive statistics of gene spans and of
// the gaps between consecutive genes.
type Summary struct {
	ID         string
	Genes      int
	SpanMean   float64
	SpanMedian float64
	SpanStdDev float64
	GapMean    float64
	GapMedian  float64
}

// Describe computes a Summary for one record. Statistics over empty sets
// are reported as zero.
func Describe(rec genbank.Record) Summary {
	s := Summary{ID: rec.ID}

	spans := gene.SpanLengths(rec)
	s.Genes = len(spans)
	if len(spans) > 0 {
		s.SpanMean, _ = mstats.Mean(spans)
		s.SpanMedian, _ = mstats.Median(spans)
		s.SpanStdDev, _ = mstats.StandardDeviation(spans)
	}

	gaps := gene.GapLengths(rec)
	if len(gaps) > 0 {
		s.GapMean, _ = mstats.Mean(gaps)
		s.GapMedian, _ = mstats.Median(gaps)
	}
	return s
}

// Render formats summaries as an aligned plain-text table.
func Render(summaries []Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %6s %10s %10s %10s %10s %10s\n",
		"record", "genes", "span_mean", "span_med", "span_sd", "gap_mean", "gap_med")
	for _, s := range summaries {
		fmt.Fprintf(&b, "%-20s %6d %10.1f %10.1f %10.1f %10.1f %10.1f\n",
			s.ID, s.Genes, s.SpanMean, s.SpanMedian, s.SpanStdDev, s.GapMean, s.GapMedian)
	}
	return b.String()
}
