// Package misc keeps program identity values set at build time.
package misc

// These are set with -ldflags "-X sbc/misc.version=... -X sbc/misc.gitHash=..."
var (
	version = "dev"
	gitHash = "unknown"
)

const appName = "sbc"

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
