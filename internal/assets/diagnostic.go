package assets

import (
	"errors"
	"fmt"
)

// Diagnostic is an operator-facing rendering of a migration failure.
type Diagnostic struct {
	Title  string
	Detail string
}

// Describe renders err. Errors outside the asset taxonomy get a generic title
// and their message as detail.
func Describe(err error) Diagnostic {
	if err == nil {
		return Diagnostic{}
	}

	var (
		load    *AssetLoadFailedError
		deploy  *AssetDeployFailedError
		invalid *InvalidContentTypeError
		unknown *UnknownContentTypeError
	)
	switch {
	case errors.As(err, &load):
		return Diagnostic{
			Title:  "Failed to load asset",
			Detail: fmt.Sprintf("Asset %s could not be loaded: %s.", load.Asset, load.Reason),
		}
	case errors.As(err, &deploy):
		return Diagnostic{
			Title:  "Failed to deploy asset",
			Detail: fmt.Sprintf("Asset %s could not be stored at %s.", deploy.From, deploy.To),
		}
	case errors.As(err, &invalid):
		return Diagnostic{
			Title:  "Invalid Content-Type",
			Detail: fmt.Sprintf("Asset %s has the invalid Content-Type %q.", invalid.URI, invalid.ContentType),
		}
	case errors.As(err, &unknown):
		return Diagnostic{
			Title:  "Unknown Content-Type",
			Detail: fmt.Sprintf("The Content-Type of asset %s could not be determined.", unknown.URI),
		}
	default:
		return Diagnostic{Title: "Asset migration failed", Detail: err.Error()}
	}
}

// String joins title and detail for single-line output.
func (d Diagnostic) String() string {
	if d.Detail == "" {
		return d.Title
	}
	return d.Title + ": " + d.Detail
}
