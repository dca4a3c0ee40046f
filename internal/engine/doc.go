// Package engine enumerates candidate files and runs the detector registry
// over them with a bounded worker pool. This package is internal; external
// consumers should use the stable facade in pkg/core.
package engine
