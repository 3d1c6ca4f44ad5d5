// Package pathbridge translates paths and environment values between the WSL
// guest and the Windows host.
package pathbridge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fullstacktard/claude-clipboard/internal/hostbridge"
	"github.com/fullstacktard/claude-clipboard/internal/messages"
)

// FallbackUserProfile is shown in instructions when the host profile cannot be resolved.
const FallbackUserProfile = `C:\Users\YourUsername`

// Host environment variables consulted by the installer.
const (
	EnvUserProfile = "USERPROFILE"
	EnvTemp        = "TEMP"
)

// Bridge resolves host values through a hostbridge.Bridge. Nothing is cached;
// every call issues a fresh host command.
type Bridge struct {
	host hostbridge.Bridge
	log  zerolog.Logger
}

// New returns a path Bridge backed by host.
func New(host hostbridge.Bridge, log zerolog.Logger) *Bridge {
	return &Bridge{host: host, log: log}
}

// HostEnv returns the value of a Windows environment variable via cmd.exe.
func (b *Bridge) HostEnv(ctx context.Context, name string) (string, error) {
	out, err := hostbridge.Output(ctx, b.host, hostbridge.CmdExe, "/c", "echo", "%"+name+"%")
	if err != nil {
		return "", fmt.Errorf(messages.PathBridgeLookupFailedFmt, name, err)
	}
	value, err := hostbridge.ParseEchoedVariable(out, name)
	if err != nil {
		return "", fmt.Errorf(messages.PathBridgeLookupFailedFmt, name, err)
	}
	return value, nil
}

// HostUserProfile returns %USERPROFILE% in host form.
func (b *Bridge) HostUserProfile(ctx context.Context) (string, error) {
	return b.HostEnv(ctx, EnvUserProfile)
}

// DisplayUserProfile returns %USERPROFILE% for instructions, or a placeholder
// when it cannot be resolved. The result must not be used for file operations.
func (b *Bridge) DisplayUserProfile(ctx context.Context) string {
	profile, err := b.HostUserProfile(ctx)
	if err != nil {
		b.log.Debug().Err(err).Msg("using placeholder user profile")
		return FallbackUserProfile
	}
	return profile
}

// HostTempDir returns %TEMP% in host form.
func (b *Bridge) HostTempDir(ctx context.Context) (string, error) {
	return b.HostEnv(ctx, EnvTemp)
}

// ToGuestPath converts a host path such as C:\Users\me into its guest form.
func (b *Bridge) ToGuestPath(ctx context.Context, hostPath string) (string, error) {
	return b.convert(ctx, hostPath)
}

// ToHostPath converts a guest path into its host form.
func (b *Bridge) ToHostPath(ctx context.Context, guestPath string) (string, error) {
	return b.convert(ctx, guestPath, "-w")
}

func (b *Bridge) convert(ctx context.Context, path string, flags ...string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New(messages.PathBridgeEmptyPath)
	}
	args := append(append([]string(nil), flags...), path)
	out, err := hostbridge.Output(ctx, b.host, hostbridge.WSLPathExe, args...)
	if err != nil {
		return "", fmt.Errorf(messages.PathBridgeConvertFailedFmt, path, err)
	}
	if out == "" {
		return "", fmt.Errorf(messages.PathBridgeConvertFailedFmt, path,
			fmt.Errorf(messages.PathBridgeEmptyOutputFmt, hostbridge.CommandLine(hostbridge.WSLPathExe, args...)))
	}
	return out, nil
}
