package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := execute(ctx, rootOptions{}, os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
