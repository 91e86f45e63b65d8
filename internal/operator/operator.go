package operator

//go:generate go tool mockgen -destination operator_mock.go -package operator . Operator

import (
	"context"
	"errors"
	"os"

	"github.com/mattn/go-isatty"
)

var ErrAborted = errors.New("aborted by the operator")

// Operator is the person in front of the launcher. Choose returns the 0-based index of
// the selected option.
type Operator interface {
	Choose(ctx context.Context, prompt string, options []string) (int, error)
}

// New returns an interactive selector when both streams are terminals and a plain
// line-based prompt otherwise.
func New(in, out *os.File) Operator {
	if isTerminal(in) && isTerminal(out) {
		return NewSelector(in, out)
	}
	return NewConsole(in, out)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
