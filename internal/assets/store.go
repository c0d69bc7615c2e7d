package assets

import (
	"context"
	"io"
	"strings"
)

// VisibilityPublic marks objects served without access control.
const VisibilityPublic = "public"

// Metadata is recorded alongside each stored object.
type Metadata struct {
	MimeType   string
	Visibility string
}

// Store persists asset bytes. A false result with a nil error means the
// write was refused.
type Store interface {
	Put(ctx context.Context, path string, r io.Reader, meta Metadata) (bool, error)
}

// PublicURL joins the public base URI and a storage path with exactly one
// slash between them.
func PublicURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
