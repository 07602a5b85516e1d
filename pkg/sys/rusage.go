//go:build unix

package sys

import "golang.org/x/sys/unix"

// MaxRSS returns the maximum resident set size of the current process in
// bytes, or 0 if it cannot be determined.
func MaxRSS() int64 {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	return int64(ru.Maxrss) * maxRSSUnit
}
