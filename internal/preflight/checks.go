package preflight

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckOriginPattern verifies that the origin filter compiles.
func CheckOriginPattern(pattern string) Result {
	const name = "Origin pattern"
	if _, err := regexp.Compile(pattern); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%q does not compile (%v)", pattern, err)}
	}
	return Result{Name: name, Passed: true, Detail: pattern}
}

// CheckPublicEndpoint issues a HEAD request against the public base URI. Any
// HTTP response counts as reachable; only transport failures fail the check.
func CheckPublicEndpoint(ctx context.Context, client *http.Client, publicURI string) Result {
	const name = "Public endpoint"

	base := strings.TrimSpace(publicURI)
	if base == "" {
		return Result{Name: name, Detail: "missing public_uri"}
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodHead, base, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("invalid url (%v)", err)}
	}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("unreachable (%v)", err)}
	}
	defer resp.Body.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("reachable (%s)", resp.Status)}
}
