package assets

import (
	"net/url"
	"strings"

	"contentstore/internal/mediatype"
)

// DefaultIgnoredContentTypes are declared types that say nothing about the
// payload; the file extension is consulted instead.
var DefaultIgnoredContentTypes = []string{
	"application/octet-stream",
	"binary/octet-stream",
}

// ContentTypeResolver picks the media type recorded for a fetched asset.
type ContentTypeResolver struct {
	ignored map[string]struct{}
}

// NewContentTypeResolver builds a resolver. A nil list selects
// DefaultIgnoredContentTypes; an empty non-nil list ignores nothing.
func NewContentTypeResolver(ignored []string) *ContentTypeResolver {
	if ignored == nil {
		ignored = DefaultIgnoredContentTypes
	}
	set := make(map[string]struct{}, len(ignored))
	for _, value := range ignored {
		value = strings.ToLower(strings.TrimSpace(value))
		if value != "" {
			set[value] = struct{}{}
		}
	}
	return &ContentTypeResolver{ignored: set}
}

// Resolve returns the declared type when it parses and is not ignored.
// Otherwise the type is guessed from the URI path, and failing that the
// declared value is parsed once more.
func (r *ContentTypeResolver) Resolve(declared string, u *url.URL) (mediatype.MediaType, error) {
	declared = strings.TrimSpace(declared)
	if mt, err := mediatype.Parse(declared); err == nil && !r.ignores(mt) {
		return mt, nil
	}

	candidate := declared
	var target string
	if u != nil {
		target = u.String()
		if guessed, ok := mediatype.TypeByPath(u.Path); ok {
			candidate = guessed
		}
	}

	mt, err := mediatype.Parse(candidate)
	if err == nil {
		return mt, nil
	}
	if declared != "" {
		return mediatype.MediaType{}, &InvalidContentTypeError{ContentType: declared, URI: target, Err: err}
	}
	return mediatype.MediaType{}, &UnknownContentTypeError{URI: target, Err: err}
}

func (r *ContentTypeResolver) ignores(mt mediatype.MediaType) bool {
	_, ok := r.ignored[mt.Essence()]
	return ok
}
