// Package orchestrator wires the installer components into the ordered
// installation pipeline.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fullstacktard/claude-clipboard/internal/config"
	"github.com/fullstacktard/claude-clipboard/internal/dependency"
	"github.com/fullstacktard/claude-clipboard/internal/hostbridge"
	"github.com/fullstacktard/claude-clipboard/internal/install"
	"github.com/fullstacktard/claude-clipboard/internal/launcher"
	"github.com/fullstacktard/claude-clipboard/internal/logging"
	"github.com/fullstacktard/claude-clipboard/internal/messages"
	"github.com/fullstacktard/claude-clipboard/internal/pathbridge"
	"github.com/fullstacktard/claude-clipboard/internal/pipeline"
	"github.com/fullstacktard/claude-clipboard/internal/probe"
	"github.com/fullstacktard/claude-clipboard/internal/report"
	"github.com/fullstacktard/claude-clipboard/internal/templates"
)

// ErrNotWSL reports that the probe did not detect a WSL kernel.
var ErrNotWSL = errors.New(messages.NotWSLError)

// InstallationTarget holds the directories resolved for one run.
type InstallationTarget struct {
	GuestInstallDir string
	// HostInstallDir is the guest-side view of the host install directory.
	HostInstallDir string
	// HostInstallDirWindows is the host form of HostInstallDir, for display only.
	HostInstallDirWindows string
	HostUserProfile       string
}

// Deps are the collaborators the orchestrator drives.
type Deps struct {
	// Host serves short host commands.
	Host hostbridge.Bridge
	// LongHost serves the installer download and run. Defaults to Host.
	LongHost  hostbridge.Bridge
	Probe     probe.System
	Files     install.System
	Templates fs.FS
	// Observer is notified as each step result is recorded.
	Observer pipeline.Observer
}

// Outcome is the record of a completed run.
type Outcome struct {
	Target  InstallationTarget
	Results pipeline.Results
	Summary report.Summary
}

// Orchestrator runs the installation pipeline.
type Orchestrator struct {
	cfg  config.Config
	deps Deps

	paths     *pathbridge.Bridge
	installer *install.Installer
	resolver  *dependency.Resolver
	launcher  *launcher.Launcher
	log       zerolog.Logger

	target InstallationTarget
}

// New builds an Orchestrator from cfg and deps. Missing filesystem
// collaborators default to the real implementations.
func New(cfg config.Config, deps Deps) *Orchestrator {
	if deps.Probe == nil {
		deps.Probe = probe.RealSystem{}
	}
	if deps.Files == nil {
		deps.Files = install.RealSystem{}
	}
	if deps.Templates == nil {
		deps.Templates = templates.FS()
	}
	if deps.LongHost == nil {
		deps.LongHost = deps.Host
	}

	paths := pathbridge.New(deps.Host, logging.GetLogger("pathbridge"))
	resolver := dependency.New(deps.Host, deps.LongHost, paths, dependency.Options{
		InstallerURL:    cfg.Dependency.InstallerURL,
		InstallerName:   config.DefaultInstallerName,
		InstallerSHA256: cfg.Dependency.InstallerSHA256,
		SilentFlag:      cfg.Dependency.SilentFlag,
		SettleDelay:     cfg.Dependency.SettleDelay.Std(),
		VerifyAttempts:  cfg.Dependency.VerifyAttempts,
		VerifyInterval:  cfg.Dependency.VerifyInterval.Std(),
	}, logging.GetLogger("dependency"))
	launch := launcher.New(deps.Host, paths, launcher.Options{
		VerifyAttempts: cfg.Monitor.VerifyAttempts,
		VerifyInterval: cfg.Monitor.VerifyInterval.Std(),
	}, logging.GetLogger("launcher"))

	return &Orchestrator{
		cfg:       cfg,
		deps:      deps,
		paths:     paths,
		installer: install.New(deps.Files, logging.GetLogger("install")),
		resolver:  resolver,
		launcher:  launch,
		log:       logging.GetLogger("orchestrator"),
	}
}

// Run executes the pipeline. A fatal step failure returns *pipeline.FatalError;
// the outcome then carries the results recorded so far.
func (o *Orchestrator) Run(ctx context.Context) (Outcome, error) {
	done := logging.LogOperationStart(o.log, "install")
	defer done()

	results, err := pipeline.Run(ctx, o.steps(), o.deps.Observer)
	outcome := Outcome{Target: o.target, Results: results}
	if err != nil {
		return outcome, err
	}
	outcome.Summary = report.Summarize(results, report.Guidance{HostInstallDir: o.target.HostInstallDirWindows})
	o.log.Info().
		Bool("full_success", outcome.Summary.FullSuccess).
		Int("manual_steps", len(outcome.Summary.ManualSteps)).
		Msg("installation finished")
	return outcome, nil
}

func (o *Orchestrator) steps() []pipeline.Step {
	requireDependency := func(prior pipeline.Results) (string, bool) {
		return messages.StepSkippedNoDependency, !prior.Succeeded(report.StepDependency)
	}
	return []pipeline.Step{
		{Name: report.StepProbe, Class: pipeline.Fatal, Run: o.probe},
		{Name: report.StepTarget, Class: pipeline.Fatal, Run: o.resolveTarget},
		{Name: report.StepGuestScripts, Class: pipeline.Fatal, Run: o.installGuest},
		{Name: report.StepHostScripts, Class: pipeline.Fatal, Run: o.installHost},
		{Name: report.StepDependency, Class: pipeline.Degradable, Run: o.ensureDependency},
		{Name: report.StepMonitor, Class: pipeline.Degradable, Skip: requireDependency, Run: o.startMonitor},
		{Name: report.StepAutoStart, Class: pipeline.Degradable, Skip: requireDependency, Run: o.configureAutoStart},
	}
}

func (o *Orchestrator) probe(context.Context) (string, error) {
	if !probe.IsTargetEnvironment(o.deps.Probe) {
		return "", ErrNotWSL
	}
	return messages.StepProbeDone, nil
}

func (o *Orchestrator) resolveTarget(ctx context.Context) (string, error) {
	guestDir := strings.TrimSpace(o.cfg.InstallDir)
	if guestDir == "" {
		return "", errors.New(messages.TargetGuestDirRequired)
	}
	profile, err := o.paths.HostUserProfile(ctx)
	if err != nil {
		return "", fmt.Errorf(messages.TargetProfileFailedFmt, err)
	}
	guestProfile, err := o.paths.ToGuestPath(ctx, profile)
	if err != nil {
		return "", fmt.Errorf(messages.TargetGuestProfileFailedFmt, profile, err)
	}
	hostDir := filepath.Join(guestProfile, "AppData", "Local", o.cfg.HostDirName)

	hostDirWindows, err := o.paths.ToHostPath(ctx, hostDir)
	if err != nil {
		// Display only; rebuild it from a fresh profile lookup instead of failing the run.
		o.log.Debug().Err(err).Str("dir", hostDir).Msg("could not translate host install dir")
		display := o.paths.DisplayUserProfile(ctx)
		hostDirWindows = strings.TrimRight(display, `\`) + `\AppData\Local\` + o.cfg.HostDirName
	}

	o.target = InstallationTarget{
		GuestInstallDir:       guestDir,
		HostInstallDir:        hostDir,
		HostInstallDirWindows: hostDirWindows,
		HostUserProfile:       profile,
	}
	o.log.Debug().
		Str("guest", guestDir).
		Str("host", hostDir).
		Str("host_windows", hostDirWindows).
		Msg("installation target resolved")
	return fmt.Sprintf(messages.StepTargetDoneFmt, hostDirWindows), nil
}

func (o *Orchestrator) installGuest(context.Context) (string, error) {
	if _, err := o.installer.InstallGuestScripts(o.deps.Templates, templates.ClipboardDir, o.target.GuestInstallDir); err != nil {
		return "", err
	}
	return fmt.Sprintf(messages.StepGuestDoneFmt, o.target.GuestInstallDir), nil
}

func (o *Orchestrator) installHost(context.Context) (string, error) {
	rule := install.MonitorPatchRule(o.target.GuestInstallDir)
	if _, err := o.installer.InstallHostScripts(o.deps.Templates, templates.AutoHotkeyDir, o.target.HostInstallDir, rule); err != nil {
		return "", err
	}
	return fmt.Sprintf(messages.StepHostDoneFmt, o.target.HostInstallDirWindows), nil
}

func (o *Orchestrator) ensureDependency(ctx context.Context) (string, error) {
	ok, status, err := o.resolver.EnsureInstalled(ctx)
	if !ok {
		if err == nil {
			err = dependency.ErrNotVerified
		}
		return fmt.Sprintf(messages.StepDependencyFailedFmt, err), err
	}
	return fmt.Sprintf(messages.StepDependencyFoundFmt, status.ResolvedPath), nil
}

func (o *Orchestrator) startMonitor(ctx context.Context) (string, error) {
	script := filepath.Join(o.target.HostInstallDir, templates.MonitorScript)
	if err := o.launcher.StartMonitor(ctx, script); err != nil {
		return fmt.Sprintf(messages.StepMonitorFailedFmt, err, o.target.HostInstallDirWindows), err
	}
	return messages.StepMonitorDone, nil
}

func (o *Orchestrator) configureAutoStart(ctx context.Context) (string, error) {
	script := filepath.Join(o.target.HostInstallDir, templates.AutoStartScript)
	if err := o.launcher.ConfigureAutoStart(ctx, script); err != nil {
		return fmt.Sprintf(messages.StepAutoStartFailedFmt, err, o.target.HostInstallDirWindows), err
	}
	return messages.StepAutoStartDone, nil
}
