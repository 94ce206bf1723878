package logging

import (
	"fmt"
	"io"
	"os"
)

// DebugEnv turns on Debugf output when set to any non-empty value.
const DebugEnv = "TASKS_DEBUG"

// debugOut is stderr so debug lines never mix with command output.
var debugOut io.Writer = os.Stderr

// DebugEnabled returns true if debug mode is enabled via TASKS_DEBUG
func DebugEnabled() bool {
	return os.Getenv(DebugEnv) != ""
}

// Debugf prints a formatted debug line only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		fmt.Fprintf(debugOut, "debug: "+format+"\n", args...)
	}
}
