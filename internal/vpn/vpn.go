// Package vpn polls an external VPN control command for advisory
// header text. The values are display-only; a failed poll degrades to
// an explicit "na" marker and never blocks the dashboard.
package vpn

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// queryTimeout bounds each individual field query so a wedged control
// command cannot stall the status refresh.
const queryTimeout = 1500 * time.Millisecond

const unavailable = "na"

// Status is the advisory connection state shown in the header.
type Status struct {
	Region string
	State  string
	IP     string
}

// String formats the status the way the header bar displays it.
func (s Status) String() string {
	return fmt.Sprintf("vpn=%s:%s:%s", s.Region, s.State, s.IP)
}

// Unavailable is the status shown before the first poll completes or
// when the control command is missing.
func Unavailable() Status {
	return Status{Region: unavailable, State: unavailable, IP: unavailable}
}

// Poller queries a piactl-style control command: one invocation per
// field, each with its own timeout.
type Poller struct {
	command string
	run     func(ctx context.Context, command string, args ...string) (string, error)
}

// NewPoller creates a Poller for the given control command (for
// example "piactl"). An empty command yields a Poller whose polls are
// always unavailable.
func NewPoller(command string) *Poller {
	return &Poller{command: command, run: runCommand}
}

// Poll fetches region, connection state, and address. Each field
// degrades independently; Poll itself never fails.
func (p *Poller) Poll(ctx context.Context) Status {
	if p.command == "" {
		return Unavailable()
	}
	return Status{
		Region: p.get(ctx, "region"),
		State:  p.get(ctx, "connectionstate"),
		IP:     p.get(ctx, "vpnip"),
	}
}

func (p *Poller) get(ctx context.Context, field string) string {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	out, err := p.run(ctx, p.command, "get", field)
	if err != nil {
		return unavailable
	}
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return unavailable
	}
	return trimmed
}

func runCommand(ctx context.Context, command string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, command, args...).Output()
	if err != nil {
		return "", fmt.Errorf("run %s: %w", command, err)
	}
	return string(out), nil
}
