package install

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/fullstacktard/claude-clipboard/internal/messages"
	"github.com/fullstacktard/claude-clipboard/internal/templates"
)

// monitorPathPattern matches the guest script assignment in the monitor launcher.
var monitorPathPattern = regexp.MustCompile(`\$wslScriptPath = .*`)

// diffMaxLines caps the patch diff written to the debug log.
const diffMaxLines = 40

// PatchRule rewrites the first match of Pattern in Target with Replacement.
type PatchRule struct {
	// Target is the file name, relative to the host install directory.
	Target      string
	Pattern     *regexp.Regexp
	Replacement string
}

// MonitorPatchRule points the monitor launcher at the guest paste script in guestInstallDir.
func MonitorPatchRule(guestInstallDir string) PatchRule {
	script := strings.TrimRight(filepath.ToSlash(guestInstallDir), "/") + "/" + templates.PasteImageScript
	return PatchRule{
		Target:      templates.MonitorScript,
		Pattern:     monitorPathPattern,
		Replacement: `$wslScriptPath = "` + script + `"`,
	}
}

// Apply returns content with the first match replaced and whether a match was found.
// The replacement is literal; "$" is not expanded.
func (r PatchRule) Apply(content string) (string, bool) {
	if r.Pattern == nil {
		return content, false
	}
	loc := r.Pattern.FindStringIndex(content)
	if loc == nil {
		return content, false
	}
	return content[:loc[0]] + r.Replacement + content[loc[1]:], true
}

// ApplyPatch rewrites path in place using rule. It writes only when the
// pattern matched and the content changed, and reports whether it wrote.
// A missing target is skipped, since the template set may no longer ship it.
func (i *Installer) ApplyPatch(path string, rule PatchRule) (bool, error) {
	data, err := i.sys.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		i.log.Debug().Str("path", path).Msg("patch target not installed, skipping")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf(messages.InstallReadFailedFmt, path, err)
	}
	before := string(data)
	after, matched := rule.Apply(before)
	if !matched {
		i.log.Debug().Str("path", path).Msg("patch pattern not found, leaving file unchanged")
		return false, nil
	}
	if after == before {
		return false, nil
	}

	perm := RegularMode
	if info, err := i.sys.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := i.sys.WriteFileAtomic(path, []byte(after), perm); err != nil {
		return false, fmt.Errorf(messages.InstallWriteFailedFmt, path, err)
	}
	name := filepath.Base(path)
	i.log.Debug().Str("path", path).Str("diff", renderDiff(name+" (template)", name+" (installed)", before, after)).Msg("patched script")
	return true, nil
}

// renderDiff returns a unified diff capped at diffMaxLines.
func renderDiff(fromName string, toName string, from string, to string) string {
	diff := udiff.Unified(fromName, toName, from, to)
	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	if len(lines) <= diffMaxLines {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[:diffMaxLines], "\n") + fmt.Sprintf("\n... (%d more lines)", len(lines)-diffMaxLines)
}
