package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/sozercan/log-doctor/apimodels"
	"github.com/sozercan/log-doctor/internal/render"
)

// Formats accepted by DisplayResults.
var Formats = []string{"human", "json", "yaml"}

// ValidateFormat reports whether DisplayResults can render format. An empty
// format means human.
func ValidateFormat(format string) error {
	if format == "" || slices.Contains(Formats, format) {
		return nil
	}
	return fmt.Errorf("unsupported output format %q (supported: %s)", format, strings.Join(Formats, ", "))
}

// DisplayResults formats and writes the analysis to w
func DisplayResults(w io.Writer, analysis *apimodels.Analysis, format string) error {
	if err := ValidateFormat(format); err != nil {
		return err
	}

	switch format {
	case "json":
		return displayJSON(w, analysis)
	case "yaml":
		return displayYAML(w, analysis)
	default:
		displayHuman(w, analysis)
		return nil
	}
}

func displayJSON(w io.Writer, analysis *apimodels.Analysis) error {
	output, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func displayYAML(w io.Writer, analysis *apimodels.Analysis) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(analysis); err != nil {
		return err
	}
	return enc.Close()
}

func displayHuman(w io.Writer, analysis *apimodels.Analysis) {
	red := color.New(color.FgRed, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	fmt.Fprintln(w)

	red.Fprintln(w, "🐞 ROOT CAUSE:")
	white.Fprintf(w, "   %s\n", analysis.RootCause.Title)
	fmt.Fprintln(w, wrapText(analysis.RootCause.Explanation, 80, "   "))
	fmt.Fprintln(w)

	cyan.Fprintln(w, "🔧 SUGGESTED SOLUTIONS:")
	if len(analysis.Solutions) == 0 {
		fmt.Fprintln(w, "   No solution was suggested.")
		fmt.Fprintln(w)
	}
	for i, solution := range analysis.Solutions {
		white.Fprintf(w, "   %d. %s\n", i+1, solution.Title)
		for j, step := range solution.Steps {
			fmt.Fprintf(w, "      %d) %s\n", j+1, highlight(step))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "💡 %s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

// highlight colours inline code spans of a step.
func highlight(step string) string {
	var b strings.Builder
	for _, seg := range render.Segments(step) {
		if seg.Code {
			b.WriteString(color.CyanString(seg.Text))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := indent
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				result.WriteString(currentLine + "\n")
				currentLine = indent + word
			} else if currentLine == indent {
				currentLine += word
			} else {
				currentLine += " " + word
			}
		}

		if currentLine != indent {
			result.WriteString(currentLine + "\n")
		}
	}

	return strings.TrimSuffix(result.String(), "\n")
}
