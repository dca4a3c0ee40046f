// Package detectors implements the plugins keyward runs over each line of a file.
// A Registry holds the active plugins and turns their matches into findings.
package detectors
