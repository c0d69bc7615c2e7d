package main

import "testing"

func TestCheckCommandReportsChecks(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "Data directory")
	requireContains(t, out, "Origin pattern")
	requireContains(t, out, "Not running")
	requireContains(t, out, "schema v1")
	requireContains(t, out, "0 files, 0 B")
}
