// Command fixturectl applies, reverts and verifies database fixtures
// stored as golang-migrate style SQL files.
//
//	fixturectl apply  --dsn fixture.db --dir ./fixtures
//	fixturectl verify --config fixturectl.yml
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
