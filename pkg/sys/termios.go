//go:build unix

package sys

import (
	"golang.org/x/sys/unix"
)

// Termios represents terminal attributes.
type Termios unix.Termios

// TermiosForFd returns a pointer to a Termios structure if it could get the
// terminal attributes for the given file descriptor.
func TermiosForFd(fd int) (*Termios, error) {
	term, err := unix.IoctlGetTermios(fd, getAttrIOCTL)
	return (*Termios)(term), err
}

// ApplyToFd applies the term attributes to the given file descriptor.
func (term *Termios) ApplyToFd(fd int) error {
	return unix.IoctlSetTermios(fd, setAttrNowIOCTL, (*unix.Termios)(term))
}

// Copy returns a copy of the Termios.
func (term *Termios) Copy() *Termios {
	v := *term
	return &v
}

// SetICanon sets the canonical flag.
func (term *Termios) SetICanon(v bool) {
	setFlag(&term.Lflag, unix.ICANON, v)
}

// SetEcho sets the echo flag.
func (term *Termios) SetEcho(v bool) {
	setFlag(&term.Lflag, unix.ECHO, v)
}

// SetVMin sets the minimum number of characters for a noncanonical read.
func (term *Termios) SetVMin(v int) {
	term.Cc[unix.VMIN] = uint8(v)
}

// SetVTime sets the timeout in deciseconds for a noncanonical read.
func (term *Termios) SetVTime(v int) {
	term.Cc[unix.VTIME] = uint8(v)
}

func setFlag(flag *termiosFlag, mask termiosFlag, v bool) {
	if v {
		*flag |= mask
	} else {
		*flag &= ^mask
	}
}
