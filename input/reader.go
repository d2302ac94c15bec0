// Package input reads the addresses to check, one per line, from standard
// input or from a list of files.
package input

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/use-agent/emotetcheck/models"
)

// maxLineSize caps a single input line.
const maxLineSize = 1 << 20

// Stdin is the path that selects standard input among file arguments.
const Stdin = "-"

// Lines yields the trimmed lines of stdin when paths is empty, or of each
// path in order otherwise. Blank lines are yielded as "". Files are opened
// only when reached. An open or read error is yielded once and ends the
// sequence.
func Lines(stdin io.Reader, paths []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if len(paths) == 0 {
			scanLines(stdin, "stdin", yield)
			return
		}
		for _, path := range paths {
			if !readPath(stdin, path, yield) {
				return
			}
		}
	}
}

// readPath reports whether iteration should continue with the next path.
func readPath(stdin io.Reader, path string, yield func(string, error) bool) bool {
	if path == Stdin {
		return scanLines(stdin, "stdin", yield)
	}

	f, err := os.Open(path) //nolint:gosec // reading user-named input files is the point
	if err != nil {
		yield("", models.NewLookupError(models.ErrCodeInput, "cannot open input", err))
		return false
	}
	defer f.Close()

	return scanLines(f, path, yield)
}

func scanLines(r io.Reader, name string, yield func(string, error) bool) bool {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		if !yield(strings.TrimSpace(sc.Text()), nil) {
			return false
		}
	}
	if err := sc.Err(); err != nil {
		yield("", models.NewLookupError(models.ErrCodeInput, fmt.Sprintf("reading %s", name), err))
		return false
	}
	return true
}
