package gene

// Package gene classifies the feature table of a GenBank record into
// protein-coding, tRNA and rRNA genes and derives display names for them.

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yashmgupta/gentext/internal/genbank"
)

// Recognized feature types, in reporting order.
const (
	TypeCDS  = "CDS"
	TypeTRNA = "tRNA"
	TypeRRNA = "rRNA"
)

// Entry is one recognized gene, placed by its start coordinate.
type Entry struct {
	Position int
	Name     string
}

// Info is the classification result for a single record.
type Info struct {
	Counts  map[string]int
	Ordered []Entry // sorted by Position, input order preserved on ties
	Total   int
}

var (
	trnaRe  = regexp.MustCompile(`tRNA-([A-Za-z]+)`)
	largeRe = regexp.MustCompile(`(?i)16S|large`)
	smallRe = regexp.MustCompile(`(?i)12S|small`)
)

// GC returns the percentage of G and C bases in seq, case-insensitive.
// An empty sequence yields 0. Ambiguity codes are not treated specially:
// they count toward length but not toward GC.
func GC(seq string) float64 {
	if len(seq) == 0 {
		return 0.0
	}
	s := strings.ToUpper(seq)
	gc := strings.Count(s, "G") + strings.Count(s, "C")
	return float64(gc) / float64(len(s)) * 100
}

// Extract walks the record's feature table and returns counts and the
// position-ordered gene list. Features other than CDS, tRNA and rRNA are
// ignored entirely.
func Extract(rec genbank.Record) Info {
	counts := map[string]int{TypeCDS: 0, TypeTRNA: 0, TypeRRNA: 0}
	var genes []Entry

	for _, feat := range rec.Features {
		if _, ok := counts[feat.Type]; !ok {
			continue
		}
		counts[feat.Type]++
		genes = append(genes, Entry{Position: feat.Start, Name: displayName(feat)})
	}

	sort.SliceStable(genes, func(i, j int) bool { return genes[i].Position < genes[j].Position })

	return Info{
		Counts:  counts,
		Ordered: genes,
		Total:   counts[TypeCDS] + counts[TypeTRNA] + counts[TypeRRNA],
	}
}

// displayName derives a human-readable name for a recognized feature:
// the first "gene" qualifier, else the first "product" qualifier, else
// the feature type itself, then normalized for tRNA/rRNA conventions.
func displayName(feat genbank.Feature) string {
	name, ok := feat.First("gene")
	if !ok {
		name, ok = feat.First("product")
	}
	if !ok {
		name = feat.Type
	}

	switch feat.Type {
	case TypeTRNA:
		if m := trnaRe.FindStringSubmatch(name); m != nil {
			name = m[1] + "-tRNA"
		}
	case TypeRRNA:
		if largeRe.MatchString(name) {
			name = "16S-rRNA"
		} else if smallRe.MatchString(name) {
			name = "12S-rRNA"
		}
		// anything else keeps its derived name
	}
	return name
}

// SpanLengths returns the length in bases of every recognized gene
// feature, in input order.
func SpanLengths(rec genbank.Record) []float64 {
	var spans []float64
	for _, feat := range rec.Features {
		if !recognized(feat.Type) {
			continue
		}
		spans = append(spans, float64(feat.End-feat.Start))
	}
	return spans
}

// GapLengths returns the distances between consecutive recognized gene
// features once sorted by start coordinate. Overlapping features yield
// negative gaps.
func GapLengths(rec genbank.Record) []float64 {
	type span struct{ start, end int }
	var spans []span
	for _, feat := range rec.Features {
		if !recognized(feat.Type) {
			continue
		}
		spans = append(spans, span{feat.Start, feat.End})
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var gaps []float64
	for i := 1; i < len(spans); i++ {
		gaps = append(gaps, float64(spans[i].start-spans[i-1].end))
	}
	return gaps
}

func recognized(t string) bool {
	return t == TypeCDS || t == TypeTRNA || t == TypeRRNA
}
