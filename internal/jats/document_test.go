package jats

import (
	"strings"
	"sync"
	"testing"
)

const sampleArticle = `<item xmlns="http://libero.pub" xml:base="http://origin-assets/">
    <article xmlns="http://jats.nlm.nih.gov" xmlns:xlink="http://www.w3.org/1999/xlink">
        <front>
            <article-meta>
                <self-uri xlink:href="/assets/article.pdf"/>
            </article-meta>
        </front>
        <body>
            <graphic xlink:href="assets/figure1.jpg"/>
            <sec xml:base="sections/">
                <media mimetype="video" mime-subtype="avi" xlink:href="figure2">
                    <supplementary-material xlink:href="figure2.txt"/>
                </media>
                <ext-link href="not-xlink.html"/>
            </sec>
        </body>
    </article>
    <graphic xmlns="http://jats.nlm.nih.gov" xmlns:xlink="http://www.w3.org/1999/xlink" xlink:href="outside.jpg"/>
</item>`

func mustParse(t *testing.T, data string) *Document {
	t.Helper()
	doc, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestLinkedElementsFindsJATSDescendantsOfArticle(t *testing.T) {
	doc := mustParse(t, sampleArticle)
	elements := doc.LinkedElements()

	var names, hrefs []string
	for _, el := range elements {
		names = append(names, el.LocalName())
		hrefs = append(hrefs, el.Href())
	}
	wantNames := "self-uri,graphic,media,supplementary-material"
	if got := strings.Join(names, ","); got != wantNames {
		t.Fatalf("names = %q, want %q", got, wantNames)
	}
	wantHrefs := "/assets/article.pdf,assets/figure1.jpg,figure2,figure2.txt"
	if got := strings.Join(hrefs, ","); got != wantHrefs {
		t.Fatalf("hrefs = %q, want %q", got, wantHrefs)
	}
}

func TestLinkedElementsIgnoresOtherNamespaces(t *testing.T) {
	doc := mustParse(t, `<item xmlns="http://libero.pub" xmlns:xlink="http://www.w3.org/1999/xlink">
  <article><graphic xlink:href="a.jpg"/></article>
</item>`)
	if got := doc.LinkedElements(); len(got) != 0 {
		t.Fatalf("expected no linked elements, got %d", len(got))
	}
}

func TestLinkedElementsHonoursPrefixedNamespaces(t *testing.T) {
	doc := mustParse(t, `<j:article xmlns:j="http://jats.nlm.nih.gov" xmlns:x="http://www.w3.org/1999/xlink">
  <j:body><j:graphic x:href="a.jpg"/><j:graphic href="b.jpg"/></j:body>
</j:article>`)
	elements := doc.LinkedElements()
	if len(elements) != 1 || elements[0].Href() != "a.jpg" {
		t.Fatalf("unexpected elements: %+v", elements)
	}
}

func TestBaseURIFollowsXMLBaseChain(t *testing.T) {
	doc := mustParse(t, sampleArticle)
	elements := doc.LinkedElements()

	base, err := elements[2].BaseURI()
	if err != nil {
		t.Fatalf("BaseURI: %v", err)
	}
	if base != "http://origin-assets/sections/" {
		t.Fatalf("base = %q", base)
	}
	resolved, err := elements[3].Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.String() != "http://origin-assets/sections/figure2.txt" {
		t.Fatalf("resolved = %q", resolved.String())
	}
}

func TestBaseURIUsesDocumentURL(t *testing.T) {
	doc := mustParse(t, `<article xmlns="http://jats.nlm.nih.gov" xmlns:xlink="http://www.w3.org/1999/xlink"><graphic xlink:href="fig.png"/></article>`)
	doc.SetURL("http://example.org/items/1/doc.xml")
	elements := doc.LinkedElements()
	resolved, err := elements[0].Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.String() != "http://example.org/items/1/fig.png" {
		t.Fatalf("resolved = %q", resolved.String())
	}
}

func TestRelativeReferenceWithoutBaseStaysRelative(t *testing.T) {
	doc := mustParse(t, `<article xmlns="http://jats.nlm.nih.gov" xmlns:xlink="http://www.w3.org/1999/xlink"><graphic xlink:href="/assets/fig.png"/></article>`)
	resolved, err := doc.LinkedElements()[0].Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Scheme != "" || resolved.String() != "/assets/fig.png" {
		t.Fatalf("resolved = %q", resolved.String())
	}
}

func TestSetHrefAndAttrsSerialize(t *testing.T) {
	doc := mustParse(t, sampleArticle)
	elements := doc.LinkedElements()
	media := elements[2]
	media.SetHref("http://public/x")
	media.SetAttr("mimetype", "application")
	media.SetAttr("mime-subtype", "xml")

	if v, _ := media.Attr("mimetype"); v != "application" {
		t.Fatalf("mimetype = %q", v)
	}
	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `xlink:href="http://public/x"`) {
		t.Fatalf("href not rewritten: %s", s)
	}
	if !strings.Contains(s, `mimetype="application" mime-subtype="xml"`) {
		t.Fatalf("attrs not replaced in place: %s", s)
	}
	if strings.Count(s, "mimetype=") != 1 {
		t.Fatalf("duplicate mimetype attributes: %s", s)
	}
}

func TestConcurrentAttributeWritesOnNestedElements(t *testing.T) {
	doc := mustParse(t, sampleArticle)
	elements := doc.LinkedElements()

	var wg sync.WaitGroup
	for _, el := range elements {
		wg.Add(1)
		go func(el *Element) {
			defer wg.Done()
			el.SetHref("http://public/" + el.LocalName())
			el.SetAttr("mimetype", "image")
			el.SetAttr("mime-subtype", "png")
		}(el)
	}
	wg.Wait()

	for _, el := range doc.LinkedElements() {
		if !strings.HasPrefix(el.Href(), "http://public/") {
			t.Fatalf("href not rewritten: %q", el.Href())
		}
	}
}

func TestParseRejectsEmptyInput(t *testing.T) {
	if _, err := Parse(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}
