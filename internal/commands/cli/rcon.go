package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gorcon/rcon"
	"github.com/kofuk/mclaunch/internal/mc/properties"
	"github.com/kofuk/mclaunch/internal/supervisor"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type Rcon struct {
	opts     *globalOptions
	Address  string
	Password string
	conn     *rcon.Conn
}

func NewRconCommand(opts *globalOptions) *cobra.Command {
	r := &Rcon{opts: opts}

	cmd := &cobra.Command{
		Use:   "rcon",
		Short: "Minecraft RCON client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.Run(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&r.Address, "address", "a", "", "Address of the RCON server (default: from server.properties)")
	flags.StringVarP(&r.Password, "password", "p", "", "Password for the RCON server (default: from server.properties)")

	return cmd
}

// fillFromProperties takes the connection settings the running server was started with.
func (r *Rcon) fillFromProperties() error {
	if r.Address != "" && r.Password != "" {
		return nil
	}

	e, err := loadEnvironment(r.opts)
	if err != nil {
		return err
	}
	doc, err := properties.Load(e.paths.GetDataPath(e.settings.PropertiesPath))
	if err != nil {
		return err
	}

	t := supervisor.RconTerminatorFor(doc)
	if t == nil {
		return errors.New("rcon is not enabled in server.properties")
	}
	if r.Address == "" {
		r.Address = t.Addr
	}
	if r.Password == "" {
		r.Password = t.Password
	}
	return nil
}

func (r *Rcon) execute(line string) (string, error) {
	line = strings.TrimPrefix(line, "/")

	output, err := r.conn.Execute(line)
	if err != nil {
		return "", err
	}
	return output, err
}

func (r *Rcon) connect(address, password string) error {
	conn, err := rcon.Dial(address, password)
	if err != nil {
		return err
	}
	r.conn = conn
	return nil
}

func isTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (r *Rcon) Run(in io.Reader, out io.Writer) error {
	if err := r.fillFromProperties(); err != nil {
		return err
	}
	if err := r.connect(r.Address, r.Password); err != nil {
		return err
	}
	defer r.conn.Close()

	scanner := bufio.NewScanner(in)
	interactive := in == os.Stdin && isTerminal()

	for {
		if interactive {
			fmt.Fprint(out, "> ")
		}

		if !scanner.Scan() {
			break
		}
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}

		output, err := r.execute(scanner.Text())
		if err != nil {
			return err
		}

		fmt.Fprintln(out, output)
	}

	return scanner.Err()
}
