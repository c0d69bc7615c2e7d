package assets

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"

	"contentstore/internal/mediatype"
)

// StoragePath derives <itemID>/v<version>/<md5>[.<ext>] from the asset bytes.
// The extension is omitted when the media type has no registered extension.
func StoragePath(itemID string, version int64, mt mediatype.MediaType, r io.Reader) (string, error) {
	hasher := md5.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return "", fmt.Errorf("hash asset: %w", err)
	}
	p := fmt.Sprintf("%s/v%d/%s", itemID, version, hex.EncodeToString(hasher.Sum(nil)))
	if ext, ok := mediatype.ExtensionFor(mt.Essence()); ok {
		p += "." + ext
	}
	return p, nil
}
