// Command reconcile runs the expedientes reconciliation offline against a
// location spreadsheet and a JSON export of the loaded cases.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
