package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/fullstacktard/claude-clipboard/internal/messages"
	"github.com/fullstacktard/claude-clipboard/internal/pipeline"
)

// Box border colors (ANSI 256).
const (
	colorSuccess = lipgloss.Color("10")
	colorWarn    = lipgloss.Color("11")
	colorError   = lipgloss.Color("9")
	colorAccent  = lipgloss.Color("13")
)

// Info locates the installed files for the summary.
type Info struct {
	GuestInstallDir string
	// HostInstallDir is the host-form path, for display only.
	HostInstallDir string
}

// Printer writes installer output. Boxed output is used only when Styled is set,
// which callers derive from whether the writer is a terminal.
type Printer struct {
	Out    io.Writer
	Styled bool
}

// Header writes the installer banner.
func (p Printer) Header() {
	p.box(colorAccent, messages.InstallHeaderTitle, messages.InstallHeaderSubtitle)
	_, _ = fmt.Fprintln(p.Out)
	_, _ = fmt.Fprintln(p.Out, color.New(color.Bold).Sprint(messages.InstallStepsSection))
}

// NotWSL writes the explanation shown when the probe fails.
func (p Printer) NotWSL() {
	p.box(colorError, messages.NotWSLTitle, messages.NotWSLBody)
}

// Step writes one progress line for a recorded step result.
func (p Printer) Step(res pipeline.StepResult) {
	_, _ = fmt.Fprintf(p.Out, messages.ReportStatusLineFmt, outcomeLabel(res.Outcome), res.Detail)
}

// Summary writes the final report.
func (p Printer) Summary(summary Summary, info Info) {
	out := p.Out
	_, _ = fmt.Fprintln(out)
	if summary.FullSuccess {
		_, _ = fmt.Fprintln(out, color.New(color.Bold).Sprint(messages.ReportCompleteSection))
		p.box(colorSuccess, messages.ReportSuccessTitle, messages.ReportSuccessIntro)
	} else {
		_, _ = fmt.Fprintln(out, color.New(color.Bold).Sprint(messages.ReportPartialSection))
		p.box(colorWarn, messages.ReportPartialTitle, messages.ReportPartialIntro)
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, messages.ReportConfiguredHeader)
	statusLine(out, summary.DependencyOK, messages.ReportDependencyOK, messages.ReportDependencyMissing)
	statusLine(out, summary.MonitorOK, messages.ReportMonitorOK, messages.ReportMonitorMissing)
	statusLine(out, summary.AutoStartOK, messages.ReportAutoStartOK, messages.ReportAutoStartMissing)

	if len(summary.ManualSteps) > 0 {
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, color.YellowString(messages.ReportManualHeader))
		for i, step := range summary.ManualSteps {
			_, _ = fmt.Fprintf(out, messages.ReportManualLineFmt, i+1, step)
		}
	}
	if summary.AutoStartHint != "" {
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, summary.AutoStartHint)
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, color.New(color.Bold).Sprint(messages.ReportUsageHeader))
	_, _ = fmt.Fprintln(out, messages.ReportUsageBody)

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, color.New(color.Bold).Sprint(messages.ReportFilesHeader))
	_, _ = fmt.Fprintf(out, messages.ReportFilesGuestFmt, info.GuestInstallDir)
	_, _ = fmt.Fprintf(out, messages.ReportFilesHostFmt, info.HostInstallDir)

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, messages.ReportTroubleshootFmt, messages.TroubleshootingURL)
}

func (p Printer) box(border lipgloss.Color, title string, body string) {
	if !p.Styled {
		_, _ = fmt.Fprintln(p.Out, title)
		_, _ = fmt.Fprintln(p.Out, strings.Repeat("=", len(title)))
		_, _ = fmt.Fprintln(p.Out, body)
		return
	}
	r := lipgloss.NewRenderer(p.Out)
	titleStyle := r.NewStyle().Bold(true).Foreground(border)
	boxStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 2)
	_, _ = fmt.Fprintln(p.Out, boxStyle.Render(titleStyle.Render(title)+"\n\n"+body))
}

func statusLine(out io.Writer, ok bool, okText string, missingText string) {
	if ok {
		_, _ = fmt.Fprintf(out, messages.ReportStatusLineFmt, color.GreenString(messages.ReportOKLabel), okText)
		return
	}
	_, _ = fmt.Fprintf(out, messages.ReportStatusLineFmt, color.YellowString(messages.ReportWarnLabel), missingText)
}

func outcomeLabel(o pipeline.Outcome) string {
	switch o {
	case pipeline.Success:
		return color.GreenString(messages.ReportOKLabel)
	case pipeline.Warning:
		return color.YellowString(messages.ReportWarnLabel)
	case pipeline.Skipped:
		return color.HiBlackString(messages.ReportSkipLabel)
	default:
		return color.RedString(messages.ReportFailLabel)
	}
}
