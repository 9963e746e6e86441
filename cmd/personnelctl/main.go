// Command personnelctl runs migrations, imports and exports against the
// personnel database without going through the HTTP API.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
