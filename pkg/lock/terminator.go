package lock

import (
	"github.com/shirou/gopsutil/v4/process"
)

// GopsTerminator signals processes through gopsutil: SIGTERM via
// Terminate, SIGKILL via Kill.
type GopsTerminator struct{}

func (GopsTerminator) Terminate(pid int32) error {
	p, err := process.NewProcess(pid)
	if err != nil {
		return err
	}
	return p.Terminate()
}

func (GopsTerminator) Kill(pid int32) error {
	p, err := process.NewProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}

func (GopsTerminator) Running(pid int32) bool {
	p, err := process.NewProcess(pid)
	if err != nil {
		return false
	}
	running, err := p.IsRunning()
	return err == nil && running
}
