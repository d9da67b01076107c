// Package ghactions emits GitHub Actions workflow commands when the
// process runs inside an Actions job.
package ghactions

import (
	"fmt"
	"os"
	"strings"
)

// IsRunning reports whether the process runs inside a GitHub Actions job
func IsRunning() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// AddMask registers a secret so the Actions runner redacts it from logs
func AddMask(secret string) {
	if secret == "" {
		return
	}
	fmt.Fprintf(os.Stdout, "::add-mask::%s\n", escape(secret))
}

// Notice emits a notice annotation
func Notice(msg string) {
	command("notice", msg)
}

// Warning emits a warning annotation
func Warning(msg string) {
	command("warning", msg)
}

// Error emits an error annotation
func Error(msg string) {
	command("error", msg)
}

func command(level, msg string) {
	fmt.Fprintf(os.Stdout, "::%s::%s\n", level, escape(msg))
}

// escape follows the workflow-command data escaping rules
func escape(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}
