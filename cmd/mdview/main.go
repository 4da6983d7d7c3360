package main

import (
	"fmt"
	"os"

	"github.com/kobzarvs/mdview/internal/app"
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	if len(args) == 1 && (args[0] == "-v" || args[0] == "--version") {
		fmt.Println(app.Name, app.Version)
		return
	}
	if err := app.New(args).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "mdview:", err)
		os.Exit(1)
	}
}
