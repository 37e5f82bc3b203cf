package report

// Package report renders manuscript-style prose summaries of annotated
// GenBank records.

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/yashmgupta/gentext/internal/gene"
	"github.com/yashmgupta/gentext/internal/genbank"
)

// Separator divides the summaries of consecutive records.
var Separator = strings.Repeat("=", 80)

// Manuscript renders the three-paragraph summary of a single record.
// The rRNA-clustering remark in the closing paragraph is part of the
// template and is emitted whether or not the rRNA genes are adjacent.
func Manuscript(rec genbank.Record, info gene.Info) string {
	names := make([]string, len(info.Ordered))
	for i, g := range info.Ordered {
		names[i] = g.Name
	}

	p1 := fmt.Sprintf(
		"In the present study, we report the sequence of %s, which spans %s base pairs "+
			"and exhibits a GC content of %.2f%%.",
		rec.ID, humanize.Comma(int64(len(rec.Sequence))), gene.GC(rec.Sequence))

	p2 := fmt.Sprintf(
		"Automated annotation identified %d protein-coding sequences (CDSs), "+
			"%d transfer RNA genes, and %d ribosomal RNA genes, for a total of %d "+
			"functional gene features. This gene complement is consistent with values "+
			"reported for similar taxa.",
		info.Counts[gene.TypeCDS], info.Counts[gene.TypeTRNA], info.Counts[gene.TypeRRNA], info.Total)

	p3 := "Analysis of gene synteny revealed the following linear arrangement: " +
		strings.Join(names, "; ") +
		". Notably, the clustering of rRNA genes suggests conservation of the " +
		"ribosomal operon structure."

	return strings.Join([]string{p1, p2, p3}, "\n\n")
}

// Summarize runs extraction and rendering over every record and joins the
// results with the separator rule. Zero records is a failure: the caller
// selected a file with nothing in it.
func Summarize(recs []genbank.Record) (string, error) {
	if len(recs) == 0 {
		return "", ErrNoRecords
	}
	summaries := make([]string, len(recs))
	for i, rec := range recs {
		summaries[i] = Manuscript(rec, gene.Extract(rec))
	}
	return strings.Join(summaries, "\n\n"+Separator+"\n\n"), nil
}
