package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"phonesanitizer/internal/cli"
	"phonesanitizer/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cfg := config.Load(cli.ServiceName)
	err := cli.NewRootCmd(cfg).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", cli.ErrorMessage(err))
		os.Exit(1)
	}
}
