// Command tabreport prints the current TabTamer report in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/tabtamer/tabtamer/cli/internal/render"
	"github.com/tabtamer/tabtamer/pkg/client"
)

func main() {
	server := flag.String("server", "http://localhost:5000", "tabtamer-server base URL")
	advice := flag.Bool("advice", false, "ask the server for coaching advice (slower)")
	keyEnv := flag.String("key-env", "", "environment variable holding the API key, if the server needs one")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	var key string
	if *keyEnv != "" {
		key = os.Getenv(*keyEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c := client.New(*server, client.Options{Key: key})
	r, err := c.Report(ctx, *advice, false)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			fmt.Fprintln(os.Stderr, "tabreport: server rejected the API key")
		} else {
			fmt.Fprintf(os.Stderr, "tabreport: %v\n", err)
		}
		os.Exit(1)
	}

	fd := os.Stdout.Fd()
	color := !*noColor && (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
	if err := render.New(os.Stdout, color).Report(r); err != nil {
		fmt.Fprintf(os.Stderr, "tabreport: %v\n", err)
		os.Exit(1)
	}
}
