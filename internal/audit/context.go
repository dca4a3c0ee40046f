package audit

import (
	"bufio"
	"fmt"
	"os"
)

// Line is one numbered line of source.
type Line struct {
	Number int
	Text   string
}

// SourceContext reads up to radius lines either side of line from filename.
// It returns an error when the file is unreadable or shorter than line.
func SourceContext(filename string, line, radius int) ([]Line, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lo, hi := max(1, line-radius), line+radius
	var out []Line
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for n := 1; sc.Scan() && n <= hi; n++ {
		if n >= lo {
			out = append(out, Line{Number: n, Text: sc.Text()})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 || out[len(out)-1].Number < line {
		return nil, fmt.Errorf("%s has no line %d", filename, line)
	}
	return out, nil
}

// LineAt returns the text of a single line.
func LineAt(filename string, line int) (string, error) {
	ls, err := SourceContext(filename, line, 0)
	if err != nil {
		return "", err
	}
	return ls[len(ls)-1].Text, nil
}
