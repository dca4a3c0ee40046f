package audit

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/keyward/keyward/internal/types"
)

const contextRadius = 3

// PromptInput reads decisions line by line from r, writing each finding and
// its source context to w. Unrecognised answers are asked again.
func PromptInput(r io.Reader, w io.Writer) InputFunc {
	br := bufio.NewReader(r)
	return func(f types.Finding, pos, total int) (Decision, error) {
		fmt.Fprintf(w, "\nSecret %d of %d\n", pos+1, total)
		fmt.Fprintf(w, "Filename:    %s\n", f.Filename)
		fmt.Fprintf(w, "Secret Type: %s\n", f.SecretType)
		fmt.Fprintln(w, strings.Repeat("-", 40))
		if lines, err := SourceContext(f.Filename, f.LineNumber, contextRadius); err == nil {
			for _, l := range lines {
				marker := " "
				if l.Number == f.LineNumber {
					marker = ">"
				}
				fmt.Fprintf(w, "%s%4d: %s\n", marker, l.Number, l.Text)
			}
		} else {
			fmt.Fprintf(w, "(source unavailable: %v)\n", err)
		}
		fmt.Fprintln(w, strings.Repeat("-", 40))
		for {
			fmt.Fprint(w, "Is this a real secret? (y)es, (n)o, (s)kip, (q)uit: ")
			line, err := br.ReadString('\n')
			if d, ok := parseDecision(line); ok {
				return d, nil
			}
			if err != nil {
				return Quit, err
			}
		}
	}
}

func parseDecision(s string) (Decision, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return Real, true
	case "n", "no":
		return FalsePositive, true
	case "s", "skip":
		return Skip, true
	case "q", "quit":
		return Quit, true
	}
	return 0, false
}
