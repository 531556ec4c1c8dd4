// Package confirmations provides UI implementations for confirmation dialogs.
package confirmations

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ConsoleDialog implements types.Confirmer over an interactive console.
type ConsoleDialog struct {
	in  io.Reader
	out io.Writer
}

// NewConsoleDialog creates a dialog on stdin/stderr.
func NewConsoleDialog() *ConsoleDialog {
	return &ConsoleDialog{in: os.Stdin, out: os.Stderr}
}

// NewConsoleDialogWith creates a dialog on explicit streams, for tests.
func NewConsoleDialogWith(in io.Reader, out io.Writer) *ConsoleDialog {
	return &ConsoleDialog{in: in, out: out}
}

// ConfirmKill asks the user whether the processes holding the resource
// may be terminated. Anything but an explicit yes is a refusal.
func (d *ConsoleDialog) ConfirmKill(resource string, holders []int32) bool {
	pids := make([]string, 0, len(holders))
	for _, pid := range holders {
		pids = append(pids, fmt.Sprintf("%d", pid))
	}

	fmt.Fprintf(d.out, "\nThe %s is held by process(es): %s\n", resource, strings.Join(pids, ", "))
	fmt.Fprintf(d.out, "Terminate them? This may interrupt a running package operation. [y/N]: ")

	scanner := bufio.NewScanner(d.in)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
