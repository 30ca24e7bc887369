// CLI-only version (no GUI dependencies)
package main

import (
	"errors"
	"fmt"
	"os"

	"sheetmark/internal/cli"
)

func main() {
	args := cli.Verbose(os.Args[1:])
	if len(args) == 0 {
		fmt.Println(cli.Usage)
		os.Exit(1)
	}

	handled, err := cli.Run(os.Stdout, args[0], args[1:])
	if !handled {
		fmt.Printf("Unknown command: %s\n", args[0])
		fmt.Println(cli.Usage)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
