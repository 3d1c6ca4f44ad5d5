package hostbridge

import (
	"fmt"
	"strings"

	"github.com/fullstacktard/claude-clipboard/internal/messages"
)

// TrimOutput strips surrounding whitespace, including the CRLF terminators
// Windows commands emit.
func TrimOutput(s string) string {
	return strings.TrimSpace(s)
}

// ParseBooleanToken parses the True/False token printed by PowerShell for a
// boolean-returning expression such as Test-Path.
func ParseBooleanToken(out string) (bool, error) {
	token := TrimOutput(out)
	switch {
	case strings.EqualFold(token, "True"):
		return true, nil
	case strings.EqualFold(token, "False"):
		return false, nil
	default:
		return false, fmt.Errorf(messages.HostBridgeInvalidBoolFmt, token)
	}
}

// ParseExistingPath returns the first non-empty output line that mentions marker
// (case-insensitive). It reports false when no line qualifies.
func ParseExistingPath(out string, marker string) (string, bool) {
	needle := strings.ToLower(marker)
	for _, line := range strings.Split(out, "\n") {
		line = TrimOutput(line)
		if line == "" {
			continue
		}
		if needle == "" || strings.Contains(strings.ToLower(line), needle) {
			return line, true
		}
	}
	return "", false
}

// ParseEchoedVariable validates the output of `cmd.exe /c echo %NAME%`.
// cmd.exe echoes the literal %NAME% when the variable is unset.
func ParseEchoedVariable(out string, name string) (string, error) {
	value := TrimOutput(out)
	if value == "" {
		return "", fmt.Errorf(messages.PathBridgeEmptyOutputFmt, "echo %"+name+"%")
	}
	if strings.EqualFold(value, "%"+name+"%") {
		return "", fmt.Errorf(messages.PathBridgeUnsetVariableFmt, name)
	}
	return value, nil
}
