//go:build !darwin && !linux && !windows

package tailwind

import "runtime"

func binaryName() string {
	return "tailwindcss-" + runtime.GOOS + "-" + archName()
}
