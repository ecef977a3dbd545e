package styles

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/jsbridge/internal/application/usecase"
	"github.com/bnema/jsbridge/internal/domain/entity"
)

// BridgeRenderer renders probe and run results.
type BridgeRenderer struct {
	theme *Theme
}

// NewBridgeRenderer creates a new bridge renderer with the given theme.
func NewBridgeRenderer(theme *Theme) *BridgeRenderer {
	return &BridgeRenderer{theme: theme}
}

// RenderProbe renders the mode decision for a runtime version.
func (r *BridgeRenderer) RenderProbe(version string, broken entity.VersionRange, out *usecase.ProbeBridgeOutput) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	keyStyle := r.theme.Subtle

	rangeNote := "outside"
	if out.InBrokenRange {
		rangeNote = "inside"
	}
	source := "probed"
	if out.Forced {
		source = "forced"
	}

	lines := []string{
		fmt.Sprintf("%s %s %s", iconStyle.Render(IconVersion), keyStyle.Render("Runtime"), r.theme.Normal.Render(version)),
		fmt.Sprintf("%s %s %s %s",
			iconStyle.Render(IconWarning), keyStyle.Render("Broken range"),
			r.theme.Normal.Render(broken.String()), keyStyle.Render("("+rangeNote+")")),
		fmt.Sprintf("%s %s %s %s",
			iconStyle.Render(IconPlug), keyStyle.Render("Mode"),
			r.modeBadge(out.Mode), keyStyle.Render(source)),
	}
	if out.Mode == entity.ModeShimmed {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			iconStyle.Render(IconBolt), keyStyle.Render("Transport"), r.theme.Highlight.Render(out.Transport.String())))
	}
	return "\n  " + strings.Join(lines, "\n  ") + "\n"
}

// RenderRun renders the summary of a page run.
func (r *BridgeRenderer) RenderRun(url string, out *usecase.RunPageOutput) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)
	transport := ""
	if out.Transport != "" {
		transport = " " + r.theme.Subtle.Render("via "+out.Transport)
	}
	return fmt.Sprintf("%s %s %s%s %s",
		iconStyle.Render(IconCheck),
		r.theme.Title.Render(url),
		r.modeBadge(out.Mode),
		transport,
		r.theme.Subtle.Render(out.Elapsed.Round(100*time.Microsecond).String()),
	)
}

// RenderError renders an error message, including the outcome kind of
// bridge errors.
func (r *BridgeRenderer) RenderError(err error) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Error)
	kind := ""
	var be *entity.BridgeError
	if errors.As(err, &be) {
		kind = r.theme.BadgeMuted.Render(be.Kind.String()) + " "
	}
	return fmt.Sprintf("%s %s%s", iconStyle.Render(IconX), kind, r.theme.ErrorStyle.Render(err.Error()))
}

func (r *BridgeRenderer) modeBadge(mode entity.BridgeMode) string {
	if mode == entity.ModeShimmed {
		return lipgloss.NewStyle().
			Foreground(r.theme.Background).
			Background(r.theme.Warning).
			Padding(0, 1).
			Render(mode.String())
	}
	return r.theme.Badge.Render(mode.String())
}
