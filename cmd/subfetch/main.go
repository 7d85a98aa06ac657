package main

import (
	"errors"
	"fmt"
	"os"

	"subfetch/internal/retriever"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, retriever.ErrCancelled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
