// Command catalogctl inspects and edits .xcstrings catalogs on disk with the
// same operators the catalogd API exposes. Edits rewrite the file in place
// unless --out is given.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "catalogctl: %v\n", err)
		os.Exit(1)
	}
}
