// Package uri resolves and normalizes the references found in documents.
package uri

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// Resolve parses ref and, when base is non-empty and ref carries no scheme,
// resolves it against base per RFC 3986. The result is always normalized.
func Resolve(ref, base string) (*url.URL, error) {
	refURL, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil, fmt.Errorf("parse reference %q: %w", ref, err)
	}
	if base = strings.TrimSpace(base); base != "" && refURL.Scheme == "" {
		baseURL, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse base %q: %w", base, err)
		}
		refURL = baseURL.ResolveReference(refURL)
	}
	return Normalize(refURL), nil
}

// IsAbsolute reports whether u has a scheme.
func IsAbsolute(u *url.URL) bool {
	return u != nil && u.Scheme != ""
}

// Normalize returns a copy of u with a lower-case scheme and host, default
// ports removed, percent-encodings upper-cased, unreserved characters decoded
// and dot segments removed. Normalize(Normalize(u)) equals Normalize(u).
func Normalize(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	n := *u
	n.Scheme = strings.ToLower(n.Scheme)
	if n.Host != "" {
		n.Host = normalizeHost(n.Scheme, &n)
	}
	if n.Opaque == "" {
		p := normalizePercent(n.EscapedPath())
		if !isRelativePathReference(&n) {
			p = removeDotSegments(p)
		}
		if p == "" && n.Host != "" && (n.Scheme == "http" || n.Scheme == "https") {
			p = "/"
		}
		setEscapedPath(&n, p)
	}
	n.RawQuery = normalizePercent(n.RawQuery)
	if n.Fragment != "" {
		setEscapedFragment(&n, normalizePercent(n.EscapedFragment()))
	}
	return &n
}

func normalizeHost(scheme string, u *url.URL) string {
	name := strings.ToLower(u.Hostname())
	port := u.Port()
	ipv6 := strings.Contains(name, ":")
	if !ipv6 && name != "" {
		if ascii, err := idna.Lookup.ToASCII(name); err == nil {
			name = ascii
		}
	}
	if ipv6 {
		name = "[" + name + "]"
	}
	if port != "" && defaultPorts[scheme] != port {
		name += ":" + port
	}
	return name
}

func isRelativePathReference(u *url.URL) bool {
	return u.Scheme == "" && u.Host == "" && !strings.HasPrefix(u.EscapedPath(), "/")
}

func setEscapedPath(u *url.URL, escaped string) {
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		u.Path, u.RawPath = escaped, ""
		return
	}
	u.Path = unescaped
	u.RawPath = ""
	if u.EscapedPath() != escaped {
		u.RawPath = escaped
	}
}

func setEscapedFragment(u *url.URL, escaped string) {
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		return
	}
	u.Fragment = unescaped
	u.RawFragment = ""
	if u.EscapedFragment() != escaped {
		u.RawFragment = escaped
	}
}

// normalizePercent upper-cases the hex digits of percent-encodings and decodes
// those that encode unreserved characters.
func normalizePercent(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			decoded := unhex(s[i+1])<<4 | unhex(s[i+2])
			if isUnreserved(decoded) {
				b.WriteByte(decoded)
			} else {
				b.WriteByte('%')
				b.WriteString(strings.ToUpper(s[i+1 : i+3]))
			}
			i += 2
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// removeDotSegments applies RFC 3986 section 5.2.4 to an escaped path.
func removeDotSegments(p string) string {
	if p == "" || p == "/" {
		return p
	}
	segments := strings.Split(p, "/")
	results := make([]string, 0, len(segments))
	var last string
	for _, segment := range segments {
		last = segment
		switch segment {
		case "..":
			if len(results) > 0 {
				results = results[:len(results)-1]
			}
		case ".":
		default:
			results = append(results, segment)
		}
	}
	out := strings.Join(results, "/")
	if strings.HasPrefix(p, "/") && !strings.HasPrefix(out, "/") {
		out = "/" + out
	} else if out != "" && (last == "." || last == "..") {
		out += "/"
	}
	return out
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return c == '-' || c == '.' || c == '_' || c == '~'
}
