package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"subfetch/internal/osdb"
	"subfetch/internal/retriever"
)

// console implements retriever.Console on top of line-based standard I/O.
type console struct {
	in  *bufio.Reader
	out io.Writer
}

func newConsole(in io.Reader, out io.Writer) *console {
	return &console{in: bufio.NewReader(in), out: out}
}

func (c *console) ShowCandidates(candidates []osdb.Candidate) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, candidateTable(candidates))
	fmt.Fprintln(c.out)
}

// ChooseCandidate prompts until it reads a valid 1-based index or a quit
// response. A line starting with q or Q quits; a number must run straight to
// the end of the line, so trailing junk re-prompts. Malformed input never
// consumes a retry budget; the prompt simply repeats.
func (c *console) ChooseCandidate(count int) (int, error) {
	for {
		fmt.Fprintf(c.out, "Choose subtitle [1..%d], q/Q to quit: ", count)
		line, err := c.in.ReadString('\n')
		if err != nil {
			return 0, fmt.Errorf("read selection: %w", err)
		}
		if len(line) > 0 && (line[0] == 'q' || line[0] == 'Q') {
			return 0, retriever.ErrCancelled
		}
		number := strings.TrimLeft(strings.TrimRight(line, "\r\n"), " \t")
		choice, err := strconv.Atoi(number)
		if err != nil || choice < 1 || choice > count {
			continue
		}
		return choice, nil
	}
}
