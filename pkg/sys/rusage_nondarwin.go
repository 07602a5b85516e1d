//go:build unix && !darwin

package sys

// ru_maxrss is reported in kilobytes on Linux and the BSDs.
const maxRSSUnit = 1024
