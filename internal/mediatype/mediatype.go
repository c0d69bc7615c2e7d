package mediatype

import (
	"errors"
	"fmt"
	"mime"
	"sort"
	"strings"
)

// ErrInvalid marks values that cannot be parsed as a media type.
var ErrInvalid = errors.New("invalid media type")

// MediaType is a parsed type/subtype pair with optional parameters.
type MediaType struct {
	Type    string
	Subtype string
	Params  map[string]string
}

// Parse reads a media type such as "image/jpeg;foo=bar". Type and subtype are
// lower-cased; both must be non-empty tokens separated by a slash.
func Parse(value string) (MediaType, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return MediaType{}, fmt.Errorf("%w: empty value", ErrInvalid)
	}
	essence, params, err := mime.ParseMediaType(raw)
	if errors.Is(err, mime.ErrInvalidMediaParameter) {
		// The essence is still usable; malformed parameters are dropped.
		err, params = nil, nil
	}
	if err != nil {
		return MediaType{}, fmt.Errorf("%w: %q: %v", ErrInvalid, raw, err)
	}
	typ, subtype, ok := strings.Cut(essence, "/")
	if !ok || typ == "" || subtype == "" {
		return MediaType{}, fmt.Errorf("%w: %q: missing subtype", ErrInvalid, raw)
	}
	if len(params) == 0 {
		params = nil
	}
	return MediaType{Type: typ, Subtype: subtype, Params: params}, nil
}

// Essence returns "type/subtype" without parameters.
func (m MediaType) Essence() string {
	if m.Type == "" && m.Subtype == "" {
		return ""
	}
	return m.Type + "/" + m.Subtype
}

// IsZero reports whether m was never populated.
func (m MediaType) IsZero() bool {
	return m.Type == "" && m.Subtype == ""
}

// String formats the media type including its parameters in key order.
func (m MediaType) String() string {
	if len(m.Params) == 0 {
		return m.Essence()
	}
	keys := make([]string, 0, len(m.Params))
	for key := range m.Params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(m.Essence())
	for _, key := range keys {
		b.WriteString(";")
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(m.Params[key])
	}
	return b.String()
}
