package assets

import (
	"contentstore/internal/jats"
	"contentstore/internal/mediatype"
)

// typedElements carry mimetype and mime-subtype attributes in JATS.
var typedElements = map[string]struct{}{
	"graphic":                       {},
	"inline-graphic":                {},
	"inline-media":                  {},
	"inline-supplementary-material": {},
	"media":                         {},
	"supplementary-material":        {},
}

// Mutator points migrated elements at their public location.
type Mutator struct {
	PublicURI string
}

// Apply rewrites el's reference to the public URL of path and, for elements
// that describe their media type, records mt.
func (m Mutator) Apply(el *jats.Element, path string, mt mediatype.MediaType) string {
	target := PublicURL(m.PublicURI, path)
	el.SetHref(target)
	if _, ok := typedElements[el.LocalName()]; ok {
		el.SetAttr("mimetype", mt.Type)
		el.SetAttr("mime-subtype", mt.Subtype)
	}
	return target
}
