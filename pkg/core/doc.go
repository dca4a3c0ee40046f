// Package core provides a small, stable facade over keyward's internal
// scanning packages for programs that embed the scanner.
//
// Example:
//
//	cfg := core.Config{Paths: []string{"."}, AllFiles: true}
//	b, err := core.Scan(context.Background(), cfg)
//	if err != nil { /* handle */ }
//	_ = core.MarshalBaseline(os.Stdout, b, false)
package core
