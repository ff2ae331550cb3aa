package cmdline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	arg "github.com/alexflint/go-arg"
	"github.com/kiteco/streamal/errors"
)

// Command represents an action that can be run from the command line
type Command struct {
	Name     string
	Synopsis string
	Args     Handler
}

// Handler represents a function that gets called for an action
type Handler interface {
	Handle() error
}

// Validator is the interface for custom validation of command line arguments
type Validator interface {
	Validate() error
}

// errHelp is returned by Dispatch after help was written.
var errHelp = errors.New("help requested")

func prog() string {
	if len(os.Args) > 0 {
		return filepath.Base(os.Args[0])
	}
	return "program"
}

func writeUsage(w io.Writer, cmds ...Command) {
	fmt.Fprintf(w, "Usage: %s COMMAND [ARGS]\n", prog())
	fmt.Fprintf(w, "Command can be one of:\n")
	for _, cmd := range cmds {
		fmt.Fprintf(w, "  %-20s %s\n", cmd.Name, cmd.Synopsis)
	}
	fmt.Fprintf(w, "  %-20s %s\n", "help", "display this help and exit")
	fmt.Fprintf(w, "  %-20s %s\n", "help COMMAND", "display help for command and exit")
}

// Dispatch parses args (without the program name), validates them and runs the selected
// command's handler. Usage and help go to w.
func Dispatch(w io.Writer, args []string, cmds ...Command) error {
	if len(args) < 1 {
		writeUsage(w, cmds...)
		return errors.Configurationf("no command provided")
	}

	var help bool
	action := args[0]
	if action == "help" {
		if len(args) < 2 {
			writeUsage(w, cmds...)
			return errHelp
		}
		help = true
		action = args[1]
	}

	var cmd *Command
	for i := range cmds {
		if cmds[i].Name == action {
			cmd = &cmds[i]
			break
		}
	}
	if cmd == nil {
		writeUsage(w, cmds...)
		return errors.Configurationf("unknown command %s", action)
	}

	parser, err := arg.NewParser(arg.Config{Program: prog() + " " + action}, cmd.Args)
	if err != nil {
		return err
	}

	if help {
		parser.WriteHelp(w)
		return errHelp
	}

	if err := parser.Parse(args[1:]); err != nil {
		if err == arg.ErrHelp {
			parser.WriteHelp(w)
			return errHelp
		}
		parser.WriteUsage(w)
		return errors.Configurationf("%v", err)
	}

	if v, ok := cmd.Args.(Validator); ok {
		if err := v.Validate(); err != nil {
			parser.WriteUsage(w)
			return err
		}
	}

	return cmd.Args.Handle()
}

// MustDispatch dispatches one of the commands using os.Args and exits the process on failure
func MustDispatch(cmds ...Command) {
	err := Dispatch(os.Stdout, os.Args[1:], cmds...)
	switch {
	case err == errHelp:
		os.Exit(0)
	case err != nil:
		fmt.Println("\nError:", err)
		os.Exit(1)
	}
}
