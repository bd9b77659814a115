// Package misc keeps program identity, values are set at link time.
package misc

var (
	appName = "dxh"
	version = "dev"
	gitHash = "unknown"
)

// GetAppName returns program name used for logger and temporary files.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns commit program was built from.
func GetGitHash() string {
	return gitHash
}
