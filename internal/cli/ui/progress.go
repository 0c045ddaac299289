package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ProgressBar renders job progress on a single terminal line
type ProgressBar struct {
	writer  io.Writer
	total   int
	current int
	width   int
	message string
	noColor bool
}

// ProgressBarOptions configures progress bar behavior
type ProgressBarOptions struct {
	Width   int // Default: 40
	NoColor bool
}

// NewProgressBar creates a new progress bar
func NewProgressBar(w io.Writer, opts ProgressBarOptions) *ProgressBar {
	width := opts.Width
	if width == 0 {
		width = 40
	}
	return &ProgressBar{
		writer:  w,
		width:   width,
		noColor: opts.NoColor,
	}
}

// Update redraws the bar. Its signature matches build.Options.ProgressFunc.
func (p *ProgressBar) Update(current, total int, message string) {
	p.total = total
	p.current = current
	if p.current > p.total {
		p.current = p.total
	}
	p.message = message
	p.render()
}

// Finish ends the progress line with a success message
func (p *ProgressBar) Finish(message string) {
	if p.total > 0 {
		fmt.Fprint(p.writer, "\r\033[K")
	}
	fmt.Fprintln(p.writer, FormatSuccess(message, p.noColor))
}

// Abort ends the progress line without a message
func (p *ProgressBar) Abort() {
	if p.total > 0 {
		fmt.Fprintln(p.writer)
	}
}

func (p *ProgressBar) render() {
	if p.total == 0 {
		return
	}

	percent := float64(p.current) / float64(p.total)
	filledWidth := int(float64(p.width) * percent)

	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	if p.noColor {
		cyan.DisableColor()
		gray.DisableColor()
	}

	// Build the progress bar
	var bar strings.Builder
	bar.WriteString("[")

	// Filled portion
	cyan.Fprint(&bar, strings.Repeat("█", filledWidth))

	// Empty portion
	emptyWidth := p.width - filledWidth
	gray.Fprint(&bar, strings.Repeat("░", emptyWidth))

	bar.WriteString("]")

	// Format percentage
	percentStr := fmt.Sprintf("%3d%%", int(percent*100))

	// Format message
	message := ""
	if p.message != "" {
		message = " " + p.message
	}

	// Print the line
	fmt.Fprintf(p.writer, "\r\033[K%s %s%s", bar.String(), percentStr, message)
}
