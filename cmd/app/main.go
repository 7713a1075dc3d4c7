// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/config"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/server"
)

func main() {
	cmd := &cli.Command{
		Name:   "catalog",
		Usage:  "Start the library catalog web application",
		Flags:  config.Flags(),
		Action: server.Run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
