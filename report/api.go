package report

import (
	"fmt"
	"os"
)

// ReportModuleError reports an error arising while compiling the named module.
func ReportModuleError(modName string, msg string, args ...interface{}) {
	r := getReporter()
	r.m.Lock()
	defer r.m.Unlock()

	r.errorCount++
	if r.logLevel >= LogLevelError {
		displayModuleMessage(modName, "error", fmt.Sprintf(msg, args...))
	}
}

// ReportModuleWarning reports a warning arising while compiling the named
// module.  Warnings never stop compilation.
func ReportModuleWarning(modName string, msg string, args ...interface{}) {
	r := getReporter()
	r.m.Lock()
	defer r.m.Unlock()

	r.warnCount++
	if r.logLevel >= LogLevelWarn {
		displayModuleMessage(modName, "warning", fmt.Sprintf(msg, args...))
	}
}

// ReportError reports an error with no module context.
func ReportError(msg string, args ...interface{}) {
	r := getReporter()
	r.m.Lock()
	defer r.m.Unlock()

	r.errorCount++
	if r.logLevel >= LogLevelError {
		displayMessage("error", fmt.Sprintf(msg, args...))
	}
}

// ReportFatal reports a fatal error and exits the process with a non-zero
// status.  Fatal errors are expected failures outside the program being
// compiled: missing toolchain binaries, unwritable output directories, etc.
func ReportFatal(msg string, args ...interface{}) {
	r := getReporter()
	r.m.Lock()

	r.errorCount++
	if r.logLevel > LogLevelSilent {
		displayMessage("fatal error", fmt.Sprintf(msg, args...))
	}

	r.m.Unlock()
	os.Exit(1)
}

// ReportICE reports an internal compiler error.  These result from bugs in
// the compiler itself and are always displayed regardless of log level.
func ReportICE(msg string, args ...interface{}) {
	r := getReporter()
	r.m.Lock()

	displayICE(fmt.Sprintf(msg, args...))

	r.m.Unlock()
	os.Exit(-1)
}

// LogVerbose writes an informational message shown only at the verbose log
// level.
func LogVerbose(msg string, args ...interface{}) {
	r := getReporter()
	r.m.Lock()
	defer r.m.Unlock()

	if r.logLevel >= LogLevelVerbose {
		fmt.Fprintf(os.Stderr, msg+"\n", args...)
	}
}
