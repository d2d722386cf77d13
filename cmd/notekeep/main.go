package main

import (
	"context"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/akhdanfadh/notekeep/internal/cli"
)

// version and commit are set during build time using -ldflags, e.g.
// go build -ldflags "-X main.version=v0.1.0 -X main.commit=$(git rev-parse --short HEAD)"
var (
	version = "dev"
	commit  = "none"
)

// getVersion returns the application version.
func getVersion() string {
	// if ldflags set a specific version, use it
	if version != "dev" {
		return version
	}
	// otherwise, try to get version from Go module info (go install ...@v1.0.0)
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return version
}

// getCommit returns the commit hash from build info if available.
func getCommit() string {
	// if ldflags set a specific commit, use it
	if commit != "none" {
		return commit
	}
	// try to get commit from Go module build info
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}
	return "unknown"
}

func main() {
	// cancels in-flight requests on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.Version, cli.Commit = getVersion(), getCommit()
	code := cli.ReportError(ctx, os.Stderr, cli.Run(ctx))
	cancel() // os.Exit skips deferred calls
	os.Exit(code)
}
