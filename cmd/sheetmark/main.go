package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sheetmark/internal/cli"
	"sheetmark/internal/gui"
)

var openable = []string{".json", ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

func main() {
	args := cli.Verbose(os.Args[1:])
	if len(args) == 0 {
		cmdGUI(nil)
		return
	}

	command := args[0]
	if command == "gui" {
		cmdGUI(args[1:])
		return
	}

	handled, err := cli.Run(os.Stdout, command, args[1:])
	if !handled {
		// If it looks like an image or project, open GUI
		ext := strings.ToLower(filepath.Ext(command))
		for _, e := range openable {
			if ext == e {
				cmdGUI(args)
				return
			}
		}
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println(cli.Usage + "\n  gui [file]                    Open the editor\n  <file>                        Open the editor (shortcut)")
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

func cmdGUI(args []string) {
	app := gui.NewApp()

	if len(args) > 0 {
		app.RunWithFile(args[0])
	} else {
		app.Run()
	}
}
