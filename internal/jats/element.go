package jats

import (
	"net/url"

	"github.com/beevik/etree"

	"contentstore/internal/uri"
)

// Element is a linked element discovered by Document.LinkedElements. The
// reference and its base URI are captured at discovery so later reads never
// touch ancestors that other goroutines may be rewriting.
type Element struct {
	el      *etree.Element
	doc     *Document
	hrefIdx int
	href    string
	base    string
	baseErr error
}

func newElement(doc *Document, el *etree.Element, hrefIdx int) *Element {
	e := &Element{el: el, doc: doc, hrefIdx: hrefIdx, href: el.Attr[hrefIdx].Value}
	e.base, e.baseErr = baseURI(el, doc.url)
	return e
}

// LocalName returns the element name without its prefix.
func (e *Element) LocalName() string {
	return e.el.Tag
}

// Href returns the raw xlink:href value as discovered.
func (e *Element) Href() string {
	return e.href
}

// SetHref rewrites the xlink:href attribute in place, keeping its prefix.
func (e *Element) SetHref(value string) {
	e.el.Attr[e.hrefIdx].Value = value
}

// Attr returns the value of an unprefixed attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, attr := range e.el.Attr {
		if attr.Space == "" && attr.Key == name {
			return attr.Value, true
		}
	}
	return "", false
}

// SetAttr creates or replaces an unprefixed attribute.
func (e *Element) SetAttr(name, value string) {
	e.el.CreateAttr(name, value)
	// CreateAttr may grow the slice; the href position is unaffected.
}

// BaseURI returns the effective base URI: the document URL with every
// xml:base from the root down to this element applied in turn.
func (e *Element) BaseURI() (string, error) {
	return e.base, e.baseErr
}

// Resolve resolves the reference against the element's base URI.
func (e *Element) Resolve() (*url.URL, error) {
	if e.baseErr != nil {
		return nil, e.baseErr
	}
	return uri.Resolve(e.href, e.base)
}

func baseURI(el *etree.Element, documentURL string) (string, error) {
	var chain []string
	for cur := el; cur != nil; cur = cur.Parent() {
		for _, attr := range cur.Attr {
			if attr.Space == "xml" && attr.Key == "base" {
				chain = append(chain, attr.Value)
			}
		}
	}
	base := documentURL
	for i := len(chain) - 1; i >= 0; i-- {
		resolved, err := uri.Resolve(chain[i], base)
		if err != nil {
			return "", err
		}
		base = resolved.String()
	}
	return base, nil
}
