// Command veritas talks to a goVeritas service or scores clips locally.
//
// Usage:
//
//	veritas detect [--endpoint URL] [--key KEY] [--language NAME] <file.mp3>
//	veritas analyze [--policy-file FILE --policy-version V] <file>
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
