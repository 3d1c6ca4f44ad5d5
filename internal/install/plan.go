package install

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fullstacktard/claude-clipboard/internal/messages"
)

// File modes applied to installed scripts.
const (
	ExecutableMode os.FileMode = 0o755
	RegularMode    os.FileMode = 0o644
)

// docPrefix marks documentation entries that are never installed.
const docPrefix = "README"

// hostScriptExt marks scripts run by the host interpreter; they keep default permissions.
const hostScriptExt = ".ps1"

// TemplateFile describes one template entry and where it is installed.
type TemplateFile struct {
	// SourcePath is the slash-separated path inside the template filesystem.
	SourcePath string
	// DestPath is the destination path on disk.
	DestPath   string
	Executable bool
	Skip       bool
}

// Mode returns the permission bits the installed file receives.
func (f TemplateFile) Mode() os.FileMode {
	if f.Executable {
		return ExecutableMode
	}
	return RegularMode
}

// PlanTemplates lists the regular files directly under templateDir and maps
// each to destDir. Entries are sorted by name. Documentation files are marked
// Skip; every file is Executable unless it is a host-interpreted script.
func PlanTemplates(templates fs.FS, templateDir string, destDir string) ([]TemplateFile, error) {
	if templateDir == "" {
		return nil, errors.New(messages.InstallTemplateDirRequired)
	}
	if destDir == "" {
		return nil, errors.New(messages.InstallDestDirRequired)
	}
	entries, err := fs.ReadDir(templates, templateDir)
	if err != nil {
		return nil, fmt.Errorf(messages.InstallReadTemplateDirFailedFmt, templateDir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	files := make([]TemplateFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		files = append(files, TemplateFile{
			SourcePath: path.Join(templateDir, name),
			DestPath:   filepath.Join(destDir, name),
			Executable: !strings.EqualFold(filepath.Ext(name), hostScriptExt),
			Skip:       strings.HasPrefix(name, docPrefix),
		})
	}
	return files, nil
}
