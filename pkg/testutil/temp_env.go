package testutil

import (
	"os"

	"github.com/tecoline/gteco/pkg/must"
)

// Setenv sets the value of an environment variable for the duration of a
// test. It returns the value for easier chaining.
func Setenv(c Cleanuper, name, value string) string {
	saveEnv(c, name)
	must.OK(os.Setenv(name, value))
	return value
}

// Unsetenv unsets an environment variable for the duration of a test.
func Unsetenv(c Cleanuper, name string) {
	saveEnv(c, name)
	must.OK(os.Unsetenv(name))
}

func saveEnv(c Cleanuper, name string) {
	value, existed := os.LookupEnv(name)
	if existed {
		c.Cleanup(func() { must.OK(os.Setenv(name, value)) })
	} else {
		c.Cleanup(func() { must.OK(os.Unsetenv(name)) })
	}
}
