// ABOUTME: Dashboard component with headline counts per collection
// ABOUTME: Shows totals and the active share of each entity list

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/campus-admin/internal/resources"
	"github.com/markalston/campus-admin/internal/tui/icons"
	"github.com/markalston/campus-admin/internal/tui/styles"
)

const barWidth = 16

// Dashboard displays collection summaries
type Dashboard struct {
	summaries []resources.EntitySummary
	err       error
	width     int
	height    int
}

// New creates a dashboard; summaries may be nil while loading
func New(summaries []resources.EntitySummary, width, height int) *Dashboard {
	return &Dashboard{
		summaries: summaries,
		width:     width,
		height:    height,
	}
}

// Update replaces the summaries, clearing any earlier error
func (d *Dashboard) Update(summaries []resources.EntitySummary) {
	d.summaries = summaries
	d.err = nil
}

// SetError shows err instead of the counts
func (d *Dashboard) SetError(err error) {
	d.err = err
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// View renders the dashboard
func (d *Dashboard) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Overview"))
	sb.WriteString("\n")

	switch {
	case d.err != nil:
		sb.WriteString(styles.ErrorText.Render("Could not load totals: " + d.err.Error()))
	case d.summaries == nil:
		sb.WriteString(styles.Subtitle.Render("Loading totals..."))
	default:
		for _, s := range d.summaries {
			sb.WriteString(renderSummary(s))
			sb.WriteString("\n")
		}
	}

	style := lipgloss.NewStyle()
	if d.width > 0 {
		style = style.Width(d.width)
	}
	if d.height > 0 {
		style = style.Height(d.height)
	}
	return style.Render(strings.TrimRight(sb.String(), "\n"))
}

func renderSummary(s resources.EntitySummary) string {
	percent := 0.0
	if s.Total > 0 {
		percent = float64(s.Active) / float64(s.Total) * 100
	}
	return fmt.Sprintf("%s %-11s %s %s\n   %s",
		icons.ForResource(s.Name).String(),
		s.Title,
		styles.ValueStyle.Render(fmt.Sprintf("%4d", s.Total)),
		styles.Subtitle.UnsetMarginBottom().Render(fmt.Sprintf("%d active, %d inactive", s.Active, s.Inactive)),
		styles.ProgressBar(percent, barWidth))
}
