// Command investctl calls the investor platform APIs from a terminal.
package main

import (
	"fmt"
	"os"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpclient"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", httpclient.UserMessage(err))
		os.Exit(1)
	}
}
