// Package bundle loads prebuilt UI bundles and wraps them in an HTML shell.
//
// Bundles are produced by an external build pipeline as <name>-bundle.js and
// an optional <name>-bundle.css. The Loader memoizes each bundle the first
// time it is read; Clear drops the cache for test isolation.
package bundle
