package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoNFA/internal/compiler"
	"GoNFA/internal/export"
	"GoNFA/internal/server"
	"GoNFA/internal/syntax"
)

func TestConcurrentMatchesThroughServer(t *testing.T) {
	cache := server.NewPatternCache(compiler.New(compiler.DefaultOptions()), 4, nil)
	ts := httptest.NewServer(server.NewMux(server.NewHandler(cache, nil)))
	defer ts.Close()

	cases := []struct {
		pattern, input string
		want           bool
	}{
		{"(a|b)*abb", "abb", true},
		{"a+b?", "aab", true},
		{"(ab)*", "aba", false},
		{"x|y|z", "xy", false},
	}

	var wg sync.WaitGroup

	// Spawn 50 concurrent clients over a handful of patterns.
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tc := cases[i%len(cases)]
			body, err := json.Marshal(map[string]string{"pattern": tc.pattern, "input": tc.input})
			if !assert.NoError(t, err) {
				return
			}

			resp, err := http.Post(ts.URL+"/match", "application/json", bytes.NewReader(body))
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()
			if !assert.Equal(t, http.StatusOK, resp.StatusCode, tc.pattern) {
				return
			}
			var out struct {
				Matched bool `json:"matched"`
			}
			if assert.NoError(t, json.NewDecoder(resp.Body).Decode(&out)) {
				assert.Equal(t, tc.want, out.Matched, "pattern %q on %q", tc.pattern, tc.input)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, len(cases), cache.Stats()["size"])
}

func TestConcurrentSharedMatcher(t *testing.T) {
	res, err := compiler.New(compiler.DefaultOptions()).Compile("(a|b)*abb")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in, want := "abb", true
			if i%2 == 1 {
				in, want = "abab", false
			}
			got, err := res.Matcher.MatchString(in)
			if assert.NoError(t, err, in) {
				assert.Equal(t, want, got, in)
			}
		}(i)
	}
	wg.Wait()
}

func TestConcurrentWritersLeaveWholeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nfa.json")
	patterns := []string{"a", "ab", "a|b", "(ab)*", "a+b+"}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pattern := patterns[i%len(patterns)]
			nfa, err := syntax.Compile(pattern)
			if assert.NoError(t, err, pattern) {
				assert.NoError(t, export.WriteFile(path, pattern, nfa, export.FormatJSON))
			}
		}(i)
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc export.Document
	require.NoError(t, json.Unmarshal(data, &doc), "file is not a whole document")

	// The survivor must describe its own pattern.
	nfa, err := syntax.Compile(doc.Pattern)
	require.NoError(t, err)
	assert.Len(t, doc.States, nfa.NumStates())

	// No temp files remain.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
