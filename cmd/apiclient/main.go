// Command apiclient calls a JSON API using the bearer token persisted in the
// configured credential store, and manages that token.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
