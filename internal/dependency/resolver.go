// Package dependency detects the AutoHotkey v2 runtime on the Windows host and
// installs it silently when missing.
package dependency

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fullstacktard/claude-clipboard/internal/hostbridge"
	"github.com/fullstacktard/claude-clipboard/internal/messages"
)

// ErrNotVerified reports that the installer ran but the runtime is still not detected.
var ErrNotVerified = errors.New(messages.DependencyNotVerified)

// Status is the result of one detection pass.
type Status struct {
	Installed    bool
	ResolvedPath string
}

// TempDirResolver resolves the host temp directory used for the download.
type TempDirResolver interface {
	HostTempDir(ctx context.Context) (string, error)
}

// Options controls remediation.
type Options struct {
	InstallerURL string
	// InstallerName is the file name used for the download inside the host temp directory.
	InstallerName string
	// InstallerSHA256 enables checksum verification when non-empty (lowercase hex).
	InstallerSHA256 string
	SilentFlag      string
	SettleDelay     time.Duration
	VerifyAttempts  int
	VerifyInterval  time.Duration
}

// Resolver detects and installs the host dependency.
type Resolver struct {
	host      hostbridge.Bridge
	installer hostbridge.Bridge
	paths     TempDirResolver
	opts      Options
	log       zerolog.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// New returns a Resolver. host serves quick queries; installer serves the
// download and the installer run, which may need a longer timeout. A nil
// installer falls back to host.
func New(host hostbridge.Bridge, installer hostbridge.Bridge, paths TempDirResolver, opts Options, log zerolog.Logger) *Resolver {
	if installer == nil {
		installer = host
	}
	if opts.VerifyAttempts < 1 {
		opts.VerifyAttempts = 1
	}
	return &Resolver{
		host:      host,
		installer: installer,
		paths:     paths,
		opts:      opts,
		log:       log,
		sleep:     sleepContext,
	}
}

// Detect probes the canonical install locations in order, then the host PATH.
// Query failures count as "not found" for that candidate.
func (r *Resolver) Detect(ctx context.Context) Status {
	for _, candidate := range CanonicalPaths {
		out, err := hostbridge.PowerShell(ctx, r.host, testPathScript(candidate))
		if err != nil {
			r.log.Debug().Err(err).Str("path", candidate).Msg("Test-Path failed")
			continue
		}
		exists, err := hostbridge.ParseBooleanToken(out)
		if err != nil {
			r.log.Debug().Err(err).Str("path", candidate).Msg("unexpected Test-Path output")
			continue
		}
		if exists {
			return r.found(ctx, candidate)
		}
	}

	out, err := hostbridge.PowerShell(ctx, r.host, commandLookupScript)
	if err != nil {
		r.log.Debug().Err(err).Msg("PATH lookup failed")
		return Status{}
	}
	if path, ok := hostbridge.ParseExistingPath(out, pathMarker); ok {
		return r.found(ctx, path)
	}
	return Status{}
}

func (r *Resolver) found(ctx context.Context, path string) Status {
	version, err := r.FileVersion(ctx, path)
	switch {
	case err != nil:
		r.log.Debug().Err(err).Str("path", path).Msg("could not read AutoHotkey version")
	case !strings.HasPrefix(version, "2."):
		r.log.Warn().Str("path", path).Str("version", version).Msg("AutoHotkey found but it is not version 2")
	default:
		r.log.Debug().Str("path", path).Str("version", version).Msg("AutoHotkey detected")
	}
	return Status{Installed: true, ResolvedPath: path}
}

// FileVersion returns the file version recorded in the executable at path.
func (r *Resolver) FileVersion(ctx context.Context, path string) (string, error) {
	out, err := hostbridge.PowerShell(ctx, r.host, fileVersionScript(path))
	if err != nil {
		return "", fmt.Errorf(messages.DependencyVersionFailedFmt, err)
	}
	return out, nil
}

// EnsureInstalled returns true when the runtime is present, installing it
// first if needed. An already-installed runtime triggers no download. The
// returned error explains why the runtime could not be installed or verified.
func (r *Resolver) EnsureInstalled(ctx context.Context) (bool, Status, error) {
	if status := r.Detect(ctx); status.Installed {
		return true, status, nil
	}
	r.log.Info().Str("url", r.opts.InstallerURL).Msg("AutoHotkey not detected, installing")

	tempDir, err := r.paths.HostTempDir(ctx)
	if err != nil {
		return false, Status{}, fmt.Errorf(messages.DependencyTempDirFailedFmt, err)
	}
	exe := strings.TrimRight(tempDir, `\`) + `\` + r.opts.InstallerName

	if _, err := hostbridge.PowerShell(ctx, r.installer, downloadScript(r.opts.InstallerURL, exe)); err != nil {
		return false, Status{}, fmt.Errorf(messages.DependencyDownloadFailedFmt, err)
	}
	if r.opts.InstallerSHA256 != "" {
		if err := r.verifyChecksum(ctx, exe); err != nil {
			return false, Status{}, fmt.Errorf(messages.DependencyChecksumFailedFmt, err)
		}
	}
	if _, err := hostbridge.PowerShell(ctx, r.installer, runInstallerScript(exe, r.opts.SilentFlag)); err != nil {
		return false, Status{}, fmt.Errorf(messages.DependencyRunFailedFmt, err)
	}

	// The installer can return before the executable is in place.
	if err := r.sleep(ctx, r.opts.SettleDelay); err != nil {
		return false, Status{}, err
	}
	for attempt := 1; attempt <= r.opts.VerifyAttempts; attempt++ {
		if status := r.Detect(ctx); status.Installed {
			r.log.Info().Str("path", status.ResolvedPath).Int("attempt", attempt).Msg("AutoHotkey installed")
			return true, status, nil
		}
		if attempt < r.opts.VerifyAttempts {
			if err := r.sleep(ctx, r.opts.VerifyInterval); err != nil {
				return false, Status{}, err
			}
		}
	}
	return false, Status{}, ErrNotVerified
}

func (r *Resolver) verifyChecksum(ctx context.Context, exe string) error {
	out, err := hostbridge.PowerShell(ctx, r.host, fileHashScript(exe))
	if err != nil {
		return err
	}
	got := strings.ToLower(out)
	if got != r.opts.InstallerSHA256 {
		return fmt.Errorf(messages.DependencyChecksumMismatchFmt, r.opts.InstallerSHA256, got)
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
