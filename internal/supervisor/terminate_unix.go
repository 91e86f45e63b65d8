//go:build !windows

package supervisor

import (
	"os"

	"golang.org/x/sys/unix"
)

func terminate(p *os.Process) error {
	return p.Signal(unix.SIGTERM)
}
