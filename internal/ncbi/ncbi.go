package ncbi

// Package ncbi fetches GenBank flat-file records from the NCBI efetch
// endpoint so accessions can be summarized without a local file. Fetched
// records are cached on disk with a TTL.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// httpClient performs requests; tests may replace it with a mock transport.
var httpClient = &http.Client{Timeout: 20 * time.Second}

type cachedEntry struct {
	Flatfile    string `json:"flatfile"`
	RetrievedAt int64  `json:"retrieved_at"`
}

var (
	cacheMu       sync.RWMutex
	cache         map[string]cachedEntry
	cacheLoaded   bool
	cacheFilePath string
	cacheTTLSecs  int64
)

// SetCacheFilePath overrides the on-disk cache location.
func SetCacheFilePath(path string) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cacheFilePath = path
	cacheLoaded = false
}

// SetCacheTTLSeconds overrides the cache TTL. Zero falls back to the
// NCBI_CACHE_TTL_SECONDS environment variable, then to 7 days.
func SetCacheTTLSeconds(secs int64) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cacheTTLSecs = secs
}

// FlushCache writes the in-memory cache to disk.
func FlushCache() {
	saveCache()
}

func cacheTTL() int64 {
	if cacheTTLSecs != 0 {
		return cacheTTLSecs
	}
	if s := os.Getenv("NCBI_CACHE_TTL_SECONDS"); s != "" {
		if v, err := time.ParseDuration(s + "s"); err == nil {
			return int64(v.Seconds())
		}
	}
	return int64(7 * 24 * 3600)
}

func defaultCachePath() string {
	if cacheFilePath != "" {
		return cacheFilePath
	}
	if dir, err := os.UserCacheDir(); err == nil {
		p := filepath.Join(dir, "gentext")
		_ = os.MkdirAll(p, 0o755)
		return filepath.Join(p, "ncbi_cache.json")
	}
	return filepath.Join(os.TempDir(), "gentext_ncbi_cache.json")
}

func loadCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if cacheLoaded {
		return
	}
	path := defaultCachePath()
	cache = make(map[string]cachedEntry)
	data, err := os.ReadFile(path)
	if err != nil {
		cacheLoaded = true
		return
	}
	_ = json.Unmarshal(data, &cache)
	cacheLoaded = true
}

func saveCache() {
	cacheMu.RLock()
	defer cacheMu.RUnlock()
	if cache == nil {
		return
	}
	path := defaultCachePath()
	b, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(path, b, 0o644)
}

func getCached(acc string) (string, bool) {
	loadCache()
	cacheMu.RLock()
	defer cacheMu.RUnlock()
	e, ok := cache[acc]
	if !ok {
		return "", false
	}
	ttl := cacheTTL()
	if ttl > 0 && time.Now().Unix()-e.RetrievedAt > ttl {
		return "", false
	}
	return e.Flatfile, true
}

func setCached(acc, text string) {
	if acc == "" || text == "" {
		return
	}
	loadCache()
	cacheMu.Lock()
	cache[acc] = cachedEntry{Flatfile: text, RetrievedAt: time.Now().Unix()}
	cacheMu.Unlock()
	saveCache()
}

// Fetch downloads the GenBank flat-file record for the given nucleotide
// accession. The cache is consulted first; an NCBI_API_KEY environment
// variable, when set, is passed through to efetch.
func Fetch(ctx context.Context, accession string) (string, error) {
	if accession == "" {
		return "", fmt.Errorf("ncbi: empty accession")
	}

	if v, ok := getCached(accession); ok {
		return v, nil
	}

	base := "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi?db=nuccore&id=%s&rettype=gb&retmode=text"
	apiKey := os.Getenv("NCBI_API_KEY")
	if apiKey != "" {
		base += "&api_key=" + apiKey
	}
	url := fmt.Sprintf(base, accession)

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return "", err
		}
		req.Header.Set("User-Agent", "gentext-fetcher/1.0")
		resp, err := httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			if resp.StatusCode == 200 {
				data, err := io.ReadAll(resp.Body)
				resp.Body.Close()
				if err != nil {
					return "", err
				}
				text := string(data)
				if !strings.Contains(text, "LOCUS") {
					return "", fmt.Errorf("ncbi: efetch returned no GenBank record for %s", accession)
				}
				setCached(accession, text)
				return text, nil
			}
			if resp.StatusCode == 429 {
				resp.Body.Close()
				lastErr = fmt.Errorf("ncbi efetch returned 429")
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(time.Duration(attempt*500) * time.Millisecond):
				}
				continue
			}
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return "", fmt.Errorf("ncbi efetch returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt*300) * time.Millisecond):
		}
	}
	return "", lastErr
}
