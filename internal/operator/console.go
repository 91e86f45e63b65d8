package operator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type Console struct {
	in  *bufio.Reader
	out io.Writer
}

var _ Operator = (*Console)(nil)

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Choose lists the options numbered from 1 and asks until a valid number is entered.
// End of input counts as an abort.
func (c *Console) Choose(ctx context.Context, prompt string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("%s: nothing to choose from", prompt)
	}

	fmt.Fprintf(c.out, "%s\n", prompt)
	for i, opt := range options {
		fmt.Fprintf(c.out, "  %d : %s\n", i+1, opt)
	}

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		fmt.Fprintf(c.out, "Please enter a number (1-%d) : ", len(options))
		line, err := c.readLine()
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(c.out)
				return 0, ErrAborted
			}
			return 0, err
		}

		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(options) {
			fmt.Fprintf(c.out, "Invalid choice: %q\n", line)
			continue
		}
		return n - 1, nil
	}
}
