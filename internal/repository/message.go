package repository

import (
	"fmt"
	"os"
	"os/user"
	"time"
)

// BuildCommitMessage builds the structured message applied by the VCS
// strategies: originating host, timestamp, acting user, then the
// caller-supplied free text on its own line.
func BuildCommitMessage(userMsg string, now time.Time) string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return fmt.Sprintf("EasyBuild-commit from %s (time: %s, user: %s)\n%s",
		host, now.Format(TimestampFormat), currentUsername(), userMsg)
}

func currentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}
