package report

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow, color.Bold)
	iceColor   = color.New(color.FgMagenta, color.Bold)
)

// labelColor selects the display color for a message label.
func labelColor(label string) *color.Color {
	if label == "warning" {
		return warnColor
	}

	return errorColor
}

// displayModuleMessage displays an error or warning with module context.
func displayModuleMessage(modName, label, message string) {
	fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", modName, labelColor(label).Sprint(label), message)
}

// displayMessage displays an error with no module context.
func displayMessage(label, message string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", labelColor(label).Sprint(label), message)
}

// displayICE displays an internal compiler error message.
func displayICE(message string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", iceColor.Sprint("internal compiler error"), message)
	fmt.Fprintf(os.Stderr, "This error was not supposed to happen: please open an issue on GitHub\n")
}
