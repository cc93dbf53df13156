package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/respack/respack/pkg/rsca"
)

func main() {
	// A panic anywhere below must surface as the dedicated exit code,
	// not a raw Go traceback exit.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "PANIC: %v\n", r)
			debug.PrintStack()
			os.Exit(rsca.ExitPanic)
		}
	}()

	os.Exit(rsca.Run(os.Args[1:]))
}
