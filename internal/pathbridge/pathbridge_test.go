package pathbridge

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fullstacktard/claude-clipboard/internal/hostbridge"
	"github.com/fullstacktard/claude-clipboard/internal/testutil"
)

func TestHostEnv(t *testing.T) {
	host := testutil.NewFakeHost(t)
	b := New(host, zerolog.Nop())

	profile, err := b.HostUserProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testutil.FakeUserProfile, profile)

	temp, err := b.HostTempDir(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testutil.FakeTempDir, temp)

	calls := host.CallsMatching("echo")
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"/c", "echo", "%USERPROFILE%"}, calls[0].Args)
}

func TestHostEnvFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *testutil.FakeBridge)
	}{
		{name: "unset variable", setup: func(f *testutil.FakeBridge) { f.OnStdout("echo", "%USERPROFILE%\r\n") }},
		{name: "empty output", setup: func(f *testutil.FakeBridge) { f.OnStdout("echo", "\r\n") }},
		{name: "non-zero exit", setup: func(f *testutil.FakeBridge) { f.OnExit("echo", 1, "interop disabled") }},
		{name: "bridge error", setup: func(f *testutil.FakeBridge) { f.OnError("echo", errors.New("exec format error")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testutil.NewFakeBridge()
			tt.setup(f)
			b := New(f, zerolog.Nop())

			_, err := b.HostUserProfile(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "USERPROFILE")
		})
	}
}

func TestDisplayUserProfileFallsBack(t *testing.T) {
	f := testutil.NewFakeBridge().OnExit("echo", 1, "")
	b := New(f, zerolog.Nop())
	assert.Equal(t, FallbackUserProfile, b.DisplayUserProfile(context.Background()))

	host := testutil.NewFakeHost(t)
	assert.Equal(t, testutil.FakeUserProfile, New(host, zerolog.Nop()).DisplayUserProfile(context.Background()))
}

func TestPathConversionRoundTrip(t *testing.T) {
	host := testutil.NewFakeHost(t)
	b := New(host, zerolog.Nop())
	ctx := context.Background()

	guest, err := b.ToGuestPath(ctx, testutil.FakeUserProfile)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(host.Root, "c", "Users", "tester"), guest)

	back, err := b.ToHostPath(ctx, guest)
	require.NoError(t, err)
	assert.Equal(t, testutil.FakeUserProfile, back)

	calls := host.CallsMatching("wslpath")
	require.Len(t, calls, 2)
	assert.Equal(t, []string{testutil.FakeUserProfile}, calls[0].Args)
	assert.Equal(t, []string{"-w", guest}, calls[1].Args)
}

func TestPathConversionTrimsOutput(t *testing.T) {
	f := testutil.NewFakeBridge().OnStdout("wslpath", "/mnt/c/Users/me\r\n")
	got, err := New(f, zerolog.Nop()).ToGuestPath(context.Background(), `C:\Users\me`)
	require.NoError(t, err)
	assert.Equal(t, "/mnt/c/Users/me", got)
}

func TestPathConversionErrors(t *testing.T) {
	ctx := context.Background()

	_, err := New(testutil.NewFakeBridge(), zerolog.Nop()).ToHostPath(ctx, " ")
	require.Error(t, err)

	f := testutil.NewFakeBridge().OnExit("wslpath", 1, "wslpath: D:\\x: Invalid argument")
	_, err = New(f, zerolog.Nop()).ToGuestPath(ctx, `D:\x`)
	require.Error(t, err)
	var exitErr *hostbridge.ExitError
	assert.ErrorAs(t, err, &exitErr)

	f = testutil.NewFakeBridge().OnStdout("wslpath", "\n")
	_, err = New(f, zerolog.Nop()).ToGuestPath(ctx, `C:\x`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned no output")
}
