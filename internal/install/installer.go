// Package install copies the embedded clipboard scripts into the guest and
// host install directories and rewrites the guest script path in the monitor
// launcher.
package install

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/fullstacktard/claude-clipboard/internal/messages"
)

// Installer copies template sets to their destinations.
type Installer struct {
	sys System
	log zerolog.Logger
}

// New returns an Installer backed by sys.
func New(sys System, log zerolog.Logger) *Installer {
	return &Installer{sys: sys, log: log}
}

// InstallGuestScripts copies templateDir into destDir and marks every
// non-host script executable. It returns the files it installed.
func (i *Installer) InstallGuestScripts(templates fs.FS, templateDir string, destDir string) ([]TemplateFile, error) {
	return i.copyTemplates(templates, templateDir, destDir, true)
}

// InstallHostScripts copies templateDir into destDir with default permissions,
// then applies rule to its target script. A rule that matches nothing is not an error.
func (i *Installer) InstallHostScripts(templates fs.FS, templateDir string, destDir string, rule PatchRule) ([]TemplateFile, error) {
	files, err := i.copyTemplates(templates, templateDir, destDir, false)
	if err != nil {
		return nil, err
	}
	if _, err := i.ApplyPatch(filepath.Join(destDir, rule.Target), rule); err != nil {
		return nil, err
	}
	return files, nil
}

func (i *Installer) copyTemplates(templates fs.FS, templateDir string, destDir string, guest bool) ([]TemplateFile, error) {
	if i.sys == nil {
		return nil, errors.New(messages.InstallSystemRequired)
	}
	plan, err := PlanTemplates(templates, templateDir, destDir)
	if err != nil {
		return nil, err
	}
	if err := i.sys.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf(messages.InstallCreateDirFailedFmt, destDir, err)
	}

	installed := make([]TemplateFile, 0, len(plan))
	for _, file := range plan {
		if file.Skip {
			i.log.Debug().Str("template", file.SourcePath).Msg("skipping documentation file")
			continue
		}
		if !guest {
			file.Executable = false
		}
		data, err := fs.ReadFile(templates, file.SourcePath)
		if err != nil {
			return nil, fmt.Errorf(messages.InstallReadTemplateFailedFmt, file.SourcePath, err)
		}
		if err := i.sys.WriteFileAtomic(file.DestPath, data, file.Mode()); err != nil {
			return nil, fmt.Errorf(messages.InstallWriteFailedFmt, file.DestPath, err)
		}
		i.log.Debug().
			Str("template", file.SourcePath).
			Str("dest", file.DestPath).
			Str("mode", file.Mode().String()).
			Msg("installed template")
		installed = append(installed, file)
	}
	return installed, nil
}
