// Package keyward provides the command-line interface for the keyward tool.
// It configures subcommands (scan, audit, update, completion), parses flags,
// and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/keyward/keyward/cmd/keyward"
//	func main() { keyward.Execute() }
package keyward
