package tailwind

import "runtime"

func archName() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x64"
	default:
		return runtime.GOARCH
	}
}

// BinaryName returns the release asset name for the current platform.
func BinaryName() string {
	return binaryName()
}
