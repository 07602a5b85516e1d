package store

import (
	"fmt"
	"os"
)

// MustTempStore returns a DBStore backed by a temporary file, and a cleanup
// function that should be called when the store is no longer used.
func MustTempStore() (DBStore, func()) {
	f, err := os.CreateTemp("", "gteco.test")
	if err != nil {
		panic(fmt.Sprintf("open temp file: %v", err))
	}
	st, err := NewStore(f.Name())
	if err != nil {
		panic(fmt.Sprintf("create store: %v", err))
	}
	return st, func() {
		st.Close()
		f.Close()
		err = os.Remove(f.Name())
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to remove temp file:", err)
		}
	}
}
