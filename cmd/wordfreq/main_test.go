package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tymbaca/wordfreq/mapreduce"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	err := app.RunContext(context.Background(), append([]string{"wordfreq"}, args...))
	return out.String(), err
}

func TestAnalyzeURLAndStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("the quick brown fox the Fox"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	boltPath := filepath.Join(dir, "counts.db")
	sqlitePath := filepath.Join(dir, "counts.sqlite")

	out, err := runApp(t,
		"--url", srv.URL,
		"--mappers", "2", "--reducers", "2",
		"--top", "2", "--width", "4",
		"--bbolt", boltPath, "--sqlite", sqlitePath,
		"--run", "demo",
	)
	require.NoError(t, err)
	require.Equal(t, "Top 2 most frequent words (4 distinct)\nfox ████ 2\nthe ████ 2\n", out)

	for _, storageFlag := range []string{"--bbolt", "--sqlite"} {
		path := boltPath
		if storageFlag == "--sqlite" {
			path = sqlitePath
		}

		out, err = runApp(t, "runs", storageFlag, path)
		require.NoError(t, err)
		require.Equal(t, "demo\n", out)

		out, err = runApp(t, "show", storageFlag, path, "--top", "1", "--width", "2", "demo")
		require.NoError(t, err)
		require.Equal(t, "Top 1 most frequent words (4 distinct)\nfox ██ 2\n", out)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()

	textPath := filepath.Join(dir, "book.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("a a a b b c"), 0o600))

	cfgPath := filepath.Join(dir, "wordfreq.yaml")
	cfg := "file: " + textPath + "\nmappers: 3\nreducers: 2\npartition: hash\ntop: 1\nphase_timeout: 5s\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	// top from the file
	out, err := runApp(t, "--config", cfgPath, "--width", "3")
	require.NoError(t, err)
	require.Equal(t, "Top 1 most frequent words (3 distinct)\na ███ 3\n", out)

	// explicit flag wins over the file
	out, err = runApp(t, "--config", cfgPath, "--width", "3", "--top", "2")
	require.NoError(t, err)
	require.Equal(t, "Top 2 most frequent words (3 distinct)\na ███ 3\nb ██ 2\n", out)
}

func TestConfigFileForStoredRuns(t *testing.T) {
	dir := t.TempDir()
	boltPath := filepath.Join(dir, "counts.db")

	cfgPath := filepath.Join(dir, "wordfreq.yaml")
	cfg := "bbolt: " + boltPath + "\ntop: 1\nmappers: 2\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	_, err := runApp(t, "--config", cfgPath, "--fake", "5", "--run", "demo")
	require.NoError(t, err)

	out, err := runApp(t, "runs", "--config", cfgPath)
	require.NoError(t, err)
	require.Equal(t, "demo\n", out)

	out, err = runApp(t, "show", "--config", cfgPath, "demo")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Top 1 most frequent words"), out)
	require.Equal(t, 2, strings.Count(out, "\n"), out)
}

func TestInvalidConfiguration(t *testing.T) {
	_, err := runApp(t, "--fake", "3", "--mappers", "0")
	require.ErrorIs(t, err, mapreduce.ErrConfiguration)

	_, err = runApp(t, "--fake", "3", "--partition", "random")
	require.Error(t, err)

	_, err = runApp(t, "--fake", "3", "--log-level", "loud")
	require.Error(t, err)

	_, err = runApp(t, "--fake", "3", "--width", "-5")
	require.ErrorContains(t, err, "width must be positive")
}

func TestFakeText(t *testing.T) {
	out, err := runApp(t, "--fake", "20", "--top", "5")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Top 5 most frequent words"), out)
}

func TestFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := runApp(t, "--url", srv.URL)
	require.ErrorContains(t, err, "failed to download text")
}

func TestShowRequiresStorage(t *testing.T) {
	_, err := runApp(t, "show", "demo")
	require.ErrorContains(t, err, "no storage configured")
}
