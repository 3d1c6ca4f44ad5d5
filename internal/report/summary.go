// Package report turns pipeline results into the final installation summary.
package report

import (
	"fmt"

	"github.com/fullstacktard/claude-clipboard/internal/messages"
	"github.com/fullstacktard/claude-clipboard/internal/pipeline"
)

// Step names recorded by the installer pipeline.
const (
	StepProbe        = "probe"
	StepTarget       = "resolve-target"
	StepGuestScripts = "guest-scripts"
	StepHostScripts  = "host-scripts"
	StepDependency   = "dependency"
	StepMonitor      = "monitor"
	StepAutoStart    = "autostart"
)

// Guidance carries the values interpolated into manual instructions.
type Guidance struct {
	// HostInstallDir is the host-form directory holding the launcher scripts.
	HostInstallDir string
}

// Summary is the outcome of a run as presented to the user.
type Summary struct {
	FullSuccess  bool
	DependencyOK bool
	MonitorOK    bool
	AutoStartOK  bool
	ManualSteps  []string
	// AutoStartHint is an optional instruction shown when auto-start is not configured.
	AutoStartHint string
}

// Summarize derives the summary from results. It performs no I/O.
// The run is fully successful only when the dependency, monitor and auto-start
// steps all succeeded. Manual steps list the dependency install link before
// the monitor start command; auto-start never adds a manual step.
func Summarize(results pipeline.Results, guidance Guidance) Summary {
	s := Summary{
		DependencyOK: results.Succeeded(StepDependency),
		MonitorOK:    results.Succeeded(StepMonitor),
		AutoStartOK:  results.Succeeded(StepAutoStart),
	}
	s.FullSuccess = s.DependencyOK && s.MonitorOK && s.AutoStartOK

	if !s.DependencyOK {
		s.ManualSteps = append(s.ManualSteps, messages.ManualInstallDependency)
	}
	if !s.MonitorOK {
		s.ManualSteps = append(s.ManualSteps, fmt.Sprintf(messages.ManualStartMonitorFmt, guidance.HostInstallDir))
	}
	if !s.AutoStartOK {
		s.AutoStartHint = fmt.Sprintf(messages.ManualAutoStartFmt, guidance.HostInstallDir)
	}
	return s
}
