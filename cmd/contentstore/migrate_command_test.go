package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"contentstore/internal/testsupport"
)

func newAssetOrigin(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fig1.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestMigrateCommandWritesRewrittenDocument(t *testing.T) {
	srv := newAssetOrigin(t)
	env := setupCLITestEnv(t, testsupport.WithOriginPattern("^"+srv.URL))
	docPath := testsupport.WriteFile(t, filepath.Join(env.baseDir, "article1.xml"), testsupport.GraphicArticle(srv.URL+"/fig1.png"))
	outPath := filepath.Join(env.baseDir, "out", "article1.xml")

	out, _, err := runCLI(t, []string{"--log-level", "error", "migrate", docPath, "--item", "article1", "--version", "2", "--out", outPath}, env.configPath)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	requireContains(t, out, "Migrated 1 of 1 linked assets")
	requireContains(t, out, "image/png")

	rewritten, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(rewritten), testsupport.TestPublicURI+"/article1/v2/") {
		t.Fatalf("document not rewritten: %s", rewritten)
	}
	if strings.Contains(string(rewritten), srv.URL) {
		t.Fatalf("origin reference should be gone: %s", rewritten)
	}

	out, _, err = runCLI(t, []string{"assets", "list", "--prefix", "article1/v2/", "--url"}, env.configPath)
	if err != nil {
		t.Fatalf("assets list: %v", err)
	}
	requireContains(t, out, "article1/v2/")
	requireContains(t, out, "9 B")
	requireContains(t, out, testsupport.TestPublicURI)
	requireContains(t, out, "Total (1)")
}

func TestMigrateCommandPrintsDocumentToStdout(t *testing.T) {
	srv := newAssetOrigin(t)
	env := setupCLITestEnv(t, testsupport.WithOriginPattern("^"+srv.URL))
	docPath := testsupport.WriteFile(t, filepath.Join(env.baseDir, "article1.xml"), testsupport.GraphicArticle(srv.URL+"/fig1.png"))

	out, stderr, err := runCLI(t, []string{"--log-level", "error", "migrate", docPath, "--item", "article1", "--version", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	requireContains(t, out, testsupport.TestPublicURI+"/article1/v1/")
	requireContains(t, stderr, "Migrated 1 of 1 linked assets")
}

func TestMigrateCommandReportsLoadFailure(t *testing.T) {
	srv := newAssetOrigin(t)
	env := setupCLITestEnv(t, testsupport.WithOriginPattern("^"+srv.URL))
	docPath := testsupport.WriteFile(t, filepath.Join(env.baseDir, "article1.xml"), testsupport.GraphicArticle(srv.URL+"/missing.png"))

	_, _, err := runCLI(t, []string{"--log-level", "error", "migrate", docPath, "--item", "article1", "--version", "1"}, env.configPath)
	if err == nil {
		t.Fatal("expected migration failure")
	}
	requireContains(t, err.Error(), "Failed to load asset")
	requireContains(t, err.Error(), "/missing.png")

	out, _, err := runCLI(t, []string{"assets", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("assets list: %v", err)
	}
	requireContains(t, out, "No assets stored")
}

func TestMigrateCommandValidatesFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	docPath := testsupport.WriteFile(t, filepath.Join(env.baseDir, "a.xml"), testsupport.JATSArticle(""))
	if _, _, err := runCLI(t, []string{"migrate", docPath, "--version", "1"}, env.configPath); err == nil {
		t.Fatal("expected missing --item to fail")
	}
	if _, _, err := runCLI(t, []string{"migrate", docPath, "--item", "a"}, env.configPath); err == nil {
		t.Fatal("expected missing --version to fail")
	}
}

func TestHumanSize(t *testing.T) {
	cases := map[int64]string{
		0:       "0 B",
		1023:    "1023 B",
		1536:    "1.5 KiB",
		5 << 20: "5.0 MiB",
	}
	for in, want := range cases {
		if got := humanSize(in); got != want {
			t.Errorf("humanSize(%d) = %q, want %q", in, got, want)
		}
	}
}
