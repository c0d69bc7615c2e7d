// Package jats wraps an XML element tree with the JATS-specific lookups the
// asset migration needs: linked element discovery, xml:base resolution and
// in-place attribute rewrites.
//
// A Document is safe for concurrent attribute writes on distinct elements.
// Structural changes (adding or removing elements) must not run concurrently
// with anything else.
package jats

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

// Namespace URIs recognised by the package.
const (
	NamespaceJATS  = "http://jats.nlm.nih.gov"
	NamespaceXLink = "http://www.w3.org/1999/xlink"
	NamespaceXML   = "http://www.w3.org/XML/1998/namespace"
)

// Document is a parsed XML document with an optional retrieval URL used as
// the outermost base URI.
type Document struct {
	tree *etree.Document
	url  string
}

// Parse reads an XML document from data.
func Parse(data []byte) (*Document, error) {
	return ReadFrom(bytes.NewReader(data))
}

// ReadFrom reads an XML document from r.
func ReadFrom(r io.Reader) (*Document, error) {
	tree := etree.NewDocument()
	if _, err := tree.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}
	if tree.Root() == nil {
		return nil, fmt.Errorf("parse xml: document has no root element")
	}
	return &Document{tree: tree}, nil
}

// SetURL records the location the document was retrieved from.
func (d *Document) SetURL(u string) {
	d.url = strings.TrimSpace(u)
}

// URL returns the document location, if known.
func (d *Document) URL() string {
	return d.url
}

// Bytes serializes the document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo serializes the document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := d.tree.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("write xml: %w", err)
	}
	return n, nil
}

// LinkedElements returns every JATS-namespaced element carrying an
// xlink:href attribute that sits below a JATS article element, in document
// order. Elements under nested articles are reported once.
func (d *Document) LinkedElements() []*Element {
	var out []*Element
	var visit func(el *etree.Element, insideArticle bool)
	visit = func(el *etree.Element, insideArticle bool) {
		inJATS := namespaceOf(el, el.Space) == NamespaceJATS
		if insideArticle && inJATS {
			if idx := hrefIndex(el); idx >= 0 {
				out = append(out, newElement(d, el, idx))
			}
		}
		childInside := insideArticle || (inJATS && el.Tag == "article")
		for _, child := range el.ChildElements() {
			visit(child, childInside)
		}
	}
	visit(d.tree.Root(), false)
	return out
}

// namespaceOf resolves prefix against the in-scope declarations of el.
func namespaceOf(el *etree.Element, prefix string) string {
	if prefix == "xml" {
		return NamespaceXML
	}
	for cur := el; cur != nil; cur = cur.Parent() {
		for _, attr := range cur.Attr {
			if prefix == "" && attr.Space == "" && attr.Key == "xmlns" {
				return attr.Value
			}
			if prefix != "" && attr.Space == "xmlns" && attr.Key == prefix {
				return attr.Value
			}
		}
	}
	return ""
}

// hrefIndex returns the position of the xlink:href attribute, or -1.
func hrefIndex(el *etree.Element) int {
	for i, attr := range el.Attr {
		if attr.Key != "href" || attr.Space == "" {
			continue
		}
		if namespaceOf(el, attr.Space) == NamespaceXLink {
			return i
		}
	}
	return -1
}
