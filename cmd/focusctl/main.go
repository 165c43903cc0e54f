package main

import (
	"fmt"
	"os"

	"focustimer/internal/cli"
)

func main() {
	app, err := cli.NewApp(os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	err = app.Execute(os.Args[1:])
	if closeErr := app.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
