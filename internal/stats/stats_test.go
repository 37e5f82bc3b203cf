package stats

import (
	"strings"
	"testing"

	"github.com/yashmgupta/gentext/internal/genbank"
)

func TestDescribe(t *testing.T) {
	rec := genbank.Record{
		ID: "TST00001.1",
		Features: []genbank.Feature{
			{Type: "CDS", Start: 0, End: 10, Qualifiers: map[string][]string{}},
			{Type: "source", Start: 0, End: 100, Qualifiers: map[string][]string{}},
			{Type: "tRNA", Start: 20, End: 30, Qualifiers: map[string][]string{}},
			{Type: "rRNA", Start: 40, End: 70, Qualifiers: map[string][]string{}},
		},
	}

	s := Describe(rec)
	if s.ID != "TST00001.1" {
		t.Fatalf("unexpected id: %q", s.ID)
	}
	if s.Genes != 3 {
		t.Fatalf("expected 3 genes, got %d", s.Genes)
	}
	// spans 10, 10, 30
	if s.SpanMean < 16.6 || s.SpanMean > 16.7 {
		t.Fatalf("unexpected span mean: %v", s.SpanMean)
	}
	if s.SpanMedian != 10 {
		t.Fatalf("unexpected span median: %v", s.SpanMedian)
	}
	// gaps 10, 10
	if s.GapMean != 10 || s.GapMedian != 10 {
		t.Fatalf("unexpected gaps: mean=%v median=%v", s.GapMean, s.GapMedian)
	}
}

func TestDescribeEmpty(t *testing.T) {
	s := Describe(genbank.Record{ID: "EMPTY"})
	if s.Genes != 0 || s.SpanMean != 0 || s.GapMean != 0 {
		t.Fatalf("expected zeroed summary, got %+v", s)
	}
}

func TestRender(t *testing.T) {
	out := Render([]Summary{{ID: "A.1", Genes: 2, SpanMean: 5, SpanMedian: 5}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "span_mean") {
		t.Fatalf("missing header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "A.1") {
		t.Fatalf("missing record row: %q", lines[1])
	}
}
