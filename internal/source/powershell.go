package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ListingScript lists the adapters that are up as CSV.
const ListingScript = `Get-NetAdapter | Where-Object Status -eq 'Up' | Select-Object Name, InterfaceDescription, ifIndex, LinkSpeed, InterfaceType | ConvertTo-Csv -NoTypeInformation`

// ThroughputScript samples total bytes/sec for every network interface
// instance over one second.
const ThroughputScript = `Get-Counter -Counter '\Network Interface(*)\Bytes Total/sec' -SampleInterval 1 -MaxSamples 1 | Select-Object -ExpandProperty CounterSamples | ForEach-Object { '{0}: {1:F2} bytes/sec' -f $_.InstanceName, $_.CookedValue }`

// Runner executes an external command.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// ScriptError is returned when the shell ran but the script exited non-zero.
type ScriptError struct {
	Stderr string
	Err    error
}

func (e *ScriptError) Error() string { return "PowerShell script failed: " + e.Stderr }
func (e *ScriptError) Unwrap() error { return e.Err }

// PowerShell runs the adapter and counter scripts through a PowerShell
// executable.
type PowerShell struct {
	shell  string
	runner Runner
}

// NewPowerShell creates a PowerShell source. An empty shell means
// "powershell" and a nil runner means ExecRunner.
func NewPowerShell(shell string, runner Runner) *PowerShell {
	if shell == "" {
		shell = "powershell"
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &PowerShell{shell: shell, runner: runner}
}

func (p *PowerShell) AdapterListing(ctx context.Context) (string, error) {
	return p.run(ctx, ListingScript)
}

func (p *PowerShell) ThroughputReport(ctx context.Context) (string, error) {
	return p.run(ctx, ThroughputScript)
}

func (p *PowerShell) run(ctx context.Context, script string) (string, error) {
	stdout, stderr, err := p.runner.Run(ctx, p.shell, "-NoProfile", "-NonInteractive", "-Command", script)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &ScriptError{Stderr: strings.TrimSpace(string(stderr)), Err: err}
		}
		return "", fmt.Errorf("execute %s: %w", p.shell, err)
	}
	return strings.TrimSpace(string(stdout)), nil
}
