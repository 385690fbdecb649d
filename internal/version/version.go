package version

// Version contains the tool version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X github.com/piojo/easybuild-framework/internal/version.Version=v1.2.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Verbose returns the version string written into record headers and
// commit messages, e.g. "EasyBuild v1.2.0".
func Verbose() string {
	return "EasyBuild " + Version
}
