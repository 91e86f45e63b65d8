package supervisor

import (
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/gorcon/rcon"
	"github.com/kofuk/mclaunch/internal/mc/properties"
)

// Terminator asks a running server to shut down. It must not wait for the exit.
type Terminator interface {
	Terminate(p *os.Process) error
}

type SignalTerminator struct{}

var _ Terminator = SignalTerminator{}

func (SignalTerminator) Terminate(p *os.Process) error {
	return terminate(p)
}

// RconTerminator issues "stop" over RCON so that the world is saved before exit.
type RconTerminator struct {
	Addr     string
	Password string
	Timeout  time.Duration
	Fallback Terminator
}

var _ Terminator = (*RconTerminator)(nil)

func (t *RconTerminator) fallback() Terminator {
	if t.Fallback == nil {
		return SignalTerminator{}
	}
	return t.Fallback
}

func (t *RconTerminator) sendStop() error {
	timeout := t.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	conn, err := rcon.Dial(t.Addr, t.Password, rcon.SetDialTimeout(timeout), rcon.SetDeadline(timeout))
	if err != nil {
		return err
	}
	defer conn.Close()

	slog.Debug("Executing rcon", slog.String("command", "stop"))
	resp, err := conn.Execute("stop")
	if err != nil {
		return err
	}
	slog.Debug("Rcon response received", slog.String("command", "stop"), slog.String("response", resp))

	return nil
}

func (t *RconTerminator) Terminate(p *os.Process) error {
	if err := t.sendStop(); err != nil {
		slog.Warn("Unable to stop server over rcon; sending signal instead", slog.Any("error", err))
		return t.fallback().Terminate(p)
	}
	return nil
}

// RconTerminatorFor builds a RconTerminator from the rcon settings in server.properties.
// It returns nil when rcon is disabled there.
func RconTerminatorFor(doc *properties.Document) *RconTerminator {
	if enabled, _ := doc.Get("enable-rcon"); enabled != "true" {
		return nil
	}
	password, _ := doc.Get("rcon.password")
	if password == "" {
		return nil
	}

	port := 25575
	if value, ok := doc.Get("rcon.port"); ok {
		if n, err := strconv.Atoi(value); err == nil {
			port = n
		}
	}
	host, _ := doc.Get("server-ip")
	if host == "" {
		host = "127.0.0.1"
	}

	return &RconTerminator{
		Addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		Password: password,
	}
}
