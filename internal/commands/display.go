package commands

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	stepColor    = color.New(color.FgCyan)
)

// Success prints a green checkmarked line.
func Success(format string, args ...any) {
	successColor.Printf("✅ "+format+"\n", args...)
}

// Warn prints a yellow warning line.
func Warn(format string, args ...any) {
	warnColor.Printf("⚠️  "+format+"\n", args...)
}

// Error prints a red failure line.
func Error(format string, args ...any) {
	errorColor.Printf("❌ "+format+"\n", args...)
}

// Step prints a cyan progress line for pipeline stages.
func Step(format string, args ...any) {
	stepColor.Printf("🔄 "+format+"\n", args...)
}

// Info prints an uncolored detail line.
func Info(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}
