package action

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/keyward/keyward/internal/detectors"
)

// EvaluateLine runs every plugin in reg over line and returns one row per
// plugin, sorted by plugin name: "<name padded>: <result>". Plugins that
// matched nothing show detectors.NotFound; when a plugin matches more than
// once, the last match is shown.
func EvaluateLine(reg *detectors.Registry, line string) string {
	plugins := reg.Plugins()
	results := make(map[string]string, len(plugins))
	width := 0
	for _, p := range plugins {
		results[p.Name()] = detectors.NotFound
		width = max(width, len(p.Name()))
	}
	for _, f := range reg.Evaluate(line) {
		if p, ok := reg.Lookup(f.SecretType); ok {
			results[p.Name()] = reg.FormatResult(f)
		}
	}

	rows := make([]string, 0, len(plugins))
	for _, p := range plugins {
		rows = append(rows, fmt.Sprintf("%-*s: %s", width, p.Name(), results[p.Name()]))
	}
	return strings.Join(rows, "\n")
}

// errNoInput is returned when --string is given without a value and
// standard input is empty.
var errNoInput = errors.New("no line to evaluate on standard input")

// firstLine reads the first line of r without its line terminator.
func firstLine(r io.Reader) (string, error) {
	if r == nil {
		return "", errNoInput
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if line == "" && errors.Is(err, io.EOF) {
		return "", errNoInput
	}
	return strings.TrimRight(line, "\r\n"), nil
}
