package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/meenmo/qflib/cmd/qfcalc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, cmd.ErrTasksFailed) {
			fmt.Fprintf(os.Stderr, "qfcalc: %v\n", err)
		}
		os.Exit(1)
	}
}
