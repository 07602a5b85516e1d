package sys

// ru_maxrss is reported in bytes on Darwin.
const maxRSSUnit = 1
