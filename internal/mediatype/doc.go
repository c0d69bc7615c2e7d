// Package mediatype parses media type strings and maps between media types and
// file extensions.
//
// Parse returns either a valid MediaType or an error; callers never see a
// partially populated value. The extension table is embedded and shared by
// the content-type fallback (guess a type from a URL's extension) and by
// storage path construction (pick an extension for a type).
package mediatype
