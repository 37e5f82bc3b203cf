package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/yashmgupta/gentext/internal/config"
)

func testModel() model {
	m := initialModel(&config.Config{StartDir: "."})
	m.width = 100
	m.height = 40
	m.ready = true
	m.viewport = viewport.New(96, 35)
	return m
}

func TestAppendAndClear(t *testing.T) {
	m := testModel()
	if m.content != "" || m.loads != 0 {
		t.Fatalf("expected empty initial state")
	}

	m = m.appendSummary("first summary")
	if !strings.HasPrefix(m.content, "\n\n") {
		t.Fatalf("appended output must be preceded by a blank line: %q", m.content)
	}
	if m.loads != 1 {
		t.Fatalf("expected 1 load, got %d", m.loads)
	}

	m = m.appendSummary("second summary")
	if !strings.Contains(m.content, "first summary") || !strings.Contains(m.content, "second summary") {
		t.Fatalf("appends must accumulate: %q", m.content)
	}

	m = m.clearOutput()
	if m.content != "" || m.loads != 0 {
		t.Fatalf("clear must empty the display: %+v", m)
	}
}

func TestLoadSummaryFailure(t *testing.T) {
	// empty file parses to zero records
	path := filepath.Join(t.TempDir(), "empty.gb")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	out, fail := loadSummary(path)
	if fail == nil {
		t.Fatalf("expected failure for empty file, got output %q", out)
	}
	if fail.Message != "No records found in file." {
		t.Fatalf("unexpected message: %q", fail.Message)
	}

	if _, fail := loadSummary(filepath.Join(t.TempDir(), "missing.gb")); fail == nil {
		t.Fatalf("expected failure for missing file")
	}
}

func TestLoadSummarySuccess(t *testing.T) {
	sample := `LOCUS       TEST1                  8 bp    DNA     linear   UNA 01-JAN-2024
VERSION     TST1.1
FEATURES             Location/Qualifiers
     CDS             1..8
                     /gene="A"
ORIGIN
        1 atgcatgc
//
`
	path := filepath.Join(t.TempDir(), "one.gb")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	out, fail := loadSummary(path)
	if fail != nil {
		t.Fatalf("unexpected failure: %v", fail)
	}
	if !strings.Contains(out, "TST1.1") || !strings.Contains(out, "arrangement: A.") {
		t.Fatalf("unexpected summary: %q", out)
	}
}
