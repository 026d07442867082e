package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"kiln/internal/source"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan)
	posColor  = color.New(color.Faint)
)

// Render writes human-readable diagnostics, one per line, with positions
// resolved against the file set. A nil file set prints raw spans.
func Render(w io.Writer, fs *source.FileSet, diags []Diagnostic) {
	for _, d := range diags {
		var c *color.Color
		switch d.Severity {
		case SevError:
			c = errColor
		case SevWarning:
			c = warnColor
		default:
			c = infoColor
		}
		pos := d.Primary.String()
		if fs != nil && d.Primary.IsValid() {
			path, line, col := fs.Position(d.Primary)
			pos = fmt.Sprintf("%s:%d:%d", path, line, col)
		}
		fmt.Fprintf(w, "%s %s %s %s\n",
			c.Sprintf("%s[%s]", d.Severity, d.Code),
			d.Message,
			posColor.Sprint("at"),
			posColor.Sprint(pos))
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s\n", posColor.Sprint("note:"), n.Msg)
		}
	}
}
