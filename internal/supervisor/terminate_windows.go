//go:build windows

package supervisor

import "os"

func terminate(p *os.Process) error {
	return p.Kill()
}
