// Command lazarsfeld evaluates texts against concept configurations with language models.
package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0
	ExitError   = 1 // Configuration or I/O error
	ExitUsage   = 2
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var usageErr *usageError
		if errors.As(err, &usageErr) {
			os.Exit(ExitUsage)
		}
		os.Exit(ExitError)
	}
}

// usageError marks invalid flag combinations.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}
