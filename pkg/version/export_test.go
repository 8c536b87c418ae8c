package version

import "runtime/debug"

// SetReadBuildInfo swaps the build info reader and returns a restore func
func SetReadBuildInfo(fn func() (*debug.BuildInfo, bool)) func() {
	orig := readBuildInfo
	readBuildInfo = fn
	return func() { readBuildInfo = orig }
}
