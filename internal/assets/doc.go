// Package assets moves externally hosted files referenced by JATS documents
// into the content store and rewrites the references to their public
// location.
//
// The Migrator discovers linked elements, filters them by origin, then runs a
// fetch, classify, hash, store and rewrite pipeline for each eligible element
// with bounded parallelism. Failures surface as typed errors
// (AssetLoadFailedError, AssetDeployFailedError, InvalidContentTypeError,
// UnknownContentTypeError) that declare an ErrorKind for queue status mapping
// and can be rendered for operators with Describe.
package assets
