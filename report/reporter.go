package report

import "sync"

// Reporter accumulates errors and warnings emitted during a compilation.  It
// is synchronized: its methods can be safely called from multiple goroutines,
// and every message it writes to stderr is written whole (line-atomic).
type Reporter struct {
	// The mutex used to synchronize reporting calls.
	m *sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// The number of errors reported so far.
	errorCount int

	// The number of warnings reported so far.
	warnCount int
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays warnings and errors to the user (default).
	LogLevelVerbose        // Displays all compilation messages to the user.
)

// rep is the global reporter instance.
var rep *Reporter

// InitReporter initializes the global reporter with the given log level.
// Calling it again resets the error and warning counts: each new compilation
// in a process starts from a clean reporter.
func InitReporter(logLevel int) {
	rep = &Reporter{
		m:        &sync.Mutex{},
		logLevel: logLevel,
	}
}

// getReporter returns the global reporter, initializing it with the default
// log level if no one has done so yet.
func getReporter() *Reporter {
	if rep == nil {
		InitReporter(LogLevelWarn)
	}

	return rep
}

// ShouldProceed indicates whether or not any errors have been reported that
// should stop compilation at the current phase boundary.
func ShouldProceed() bool {
	return getReporter().errorCount == 0
}

// ErrorCount returns the number of errors reported so far.
func ErrorCount() int {
	return getReporter().errorCount
}

// WarningCount returns the number of warnings reported so far.
func WarningCount() int {
	return getReporter().warnCount
}

// LogLevel returns the log level of the global reporter.
func LogLevel() int {
	return getReporter().logLevel
}
