package ncbi

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

const cannedFlatfile = `LOCUS       FAKE0001                  12 bp    DNA     linear   UNA 01-JAN-2024
DEFINITION  fake record.
ACCESSION   FAKE0001
VERSION     FAKE0001.1
FEATURES             Location/Qualifiers
     CDS             1..12
                     /gene="fakA"
ORIGIN
        1 atgcatgcatgc
//
`

func resetCache(t *testing.T) {
	t.Helper()
	tmp := t.TempDir()
	cacheFilePath = filepath.Join(tmp, "ncbi_cache.json")
	cache = nil
	cacheLoaded = false
	cacheTTLSecs = 0
}

func TestFetch_ReturnsFlatfile(t *testing.T) {
	resetCache(t)
	httpClient = &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if !strings.Contains(r.URL.RawQuery, "id=FAKE0001") {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		return &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(cannedFlatfile)),
			Header:     make(http.Header),
		}, nil
	})}

	got, err := Fetch(context.Background(), "FAKE0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "LOCUS") {
		t.Fatalf("expected flatfile text, got %q", got)
	}

	// second call should hit cache and not invoke HTTP transport
	httpClient = &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		t.Fatalf("HTTP should not be called on cached fetch")
		return nil, nil
	})}
	got2, err := Fetch(context.Background(), "FAKE0001")
	if err != nil {
		t.Fatalf("unexpected error on cached fetch: %v", err)
	}
	if got2 != got {
		t.Fatalf("cached fetch returned different text")
	}
}

func TestFetch_NoRecordInPayload(t *testing.T) {
	resetCache(t)
	httpClient = &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader("Nothing here\n")),
			Header:     make(http.Header),
		}, nil
	})}

	if _, err := Fetch(context.Background(), "MISSING"); err == nil {
		t.Fatalf("expected error for payload without a record")
	}
}

func TestFetch_ServerError(t *testing.T) {
	resetCache(t)
	httpClient = &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: 500,
			Body:       io.NopCloser(strings.NewReader("boom")),
			Header:     make(http.Header),
		}, nil
	})}

	if _, err := Fetch(context.Background(), "FAKE0001"); err == nil {
		t.Fatalf("expected error for 500 response")
	}
}

func TestFetch_EmptyAccession(t *testing.T) {
	resetCache(t)
	if _, err := Fetch(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty accession")
	}
}
