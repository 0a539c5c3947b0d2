package repl

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var errNoHistory = errors.New("history is disabled")

// command runs a ":command" line. It reports whether the session should end.
func (s *Session) command(line string, out io.Writer) (bool, error) {
	switch name := strings.Fields(line)[0]; name {
	case ":quit", ":q":
		return true, nil
	case ":history":
		return false, s.printHistory(out)
	case ":clear":
		if s.store == nil {
			return false, errNoHistory
		}
		if err := s.store.Clear(s.id); err != nil {
			return false, fmt.Errorf("clear history: %w", err)
		}
		return false, nil
	default:
		return false, fmt.Errorf("%w %q", ErrUnknownCommand, name)
	}
}

func (s *Session) printHistory(out io.Writer) error {
	if s.store == nil {
		return errNoHistory
	}
	entries, err := s.store.List(s.id)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}
	for _, e := range entries {
		if !e.OK() {
			fmt.Fprintf(out, "%d: %s -> error: %s\n", e.Seq, e.Input, e.Err)
			continue
		}
		fmt.Fprintf(out, "%d: %s = "+s.cfg.Format+"\n", e.Seq, e.Input, e.Result)
	}
	return nil
}
