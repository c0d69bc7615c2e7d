package assets

import "fmt"

// AssetLoadFailedError reports that an asset could not be retrieved from its
// origin.
type AssetLoadFailedError struct {
	Asset  string
	Reason string
	Err    error
}

func (e *AssetLoadFailedError) Error() string {
	return fmt.Sprintf("Failed to load %s due to \"%s\"", e.Asset, e.Reason)
}

func (e *AssetLoadFailedError) Unwrap() error { return e.Err }

func (e *AssetLoadFailedError) ErrorKind() string { return "external" }

func (e *AssetLoadFailedError) ErrorHint() string {
	return "check that the origin host is reachable and serves the asset"
}

// AssetDeployFailedError reports that an asset could not be written to the
// content store.
type AssetDeployFailedError struct {
	From string
	To   string
	Err  error
}

func (e *AssetDeployFailedError) Error() string {
	return fmt.Sprintf("Failed to move asset from %s to %s", e.From, e.To)
}

func (e *AssetDeployFailedError) Unwrap() error { return e.Err }

func (e *AssetDeployFailedError) ErrorKind() string { return "external" }

func (e *AssetDeployFailedError) ErrorHint() string {
	return "check free space and permissions of the asset directory"
}

// InvalidContentTypeError reports a declared Content-Type that could not be
// parsed and for which no usable fallback exists.
type InvalidContentTypeError struct {
	ContentType string
	URI         string
	Err         error
}

func (e *InvalidContentTypeError) Error() string {
	return fmt.Sprintf("\"%s\" is an invalid Content-Type", e.ContentType)
}

func (e *InvalidContentTypeError) Unwrap() error { return e.Err }

func (e *InvalidContentTypeError) ErrorKind() string { return "validation" }

func (e *InvalidContentTypeError) ErrorHint() string {
	return "fix the Content-Type served by the origin or give the asset a known file extension"
}

// UnknownContentTypeError reports an asset with neither a Content-Type nor a
// recognisable file extension.
type UnknownContentTypeError struct {
	URI string
	Err error
}

func (e *UnknownContentTypeError) Error() string {
	if e.URI == "" {
		return "Unknown Content-Type"
	}
	return "Unknown Content-Type for " + e.URI
}

func (e *UnknownContentTypeError) Unwrap() error { return e.Err }

func (e *UnknownContentTypeError) ErrorKind() string { return "validation" }

func (e *UnknownContentTypeError) ErrorHint() string {
	return "serve the asset with a Content-Type header or a known file extension"
}
