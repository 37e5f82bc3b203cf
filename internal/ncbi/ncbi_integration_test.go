//go:build integration
// +build integration

package ncbi

import "testing"

// Integration tests hit the real NCBI efetch endpoint. They are excluded by
// default; run with `go test -tags=integration ./...`.

func TestIntegrationPlaceholder(t *testing.T) {
	t.Skip("integration tests are disabled by default")
}
