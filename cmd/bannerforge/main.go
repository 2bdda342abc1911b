package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vonderheiden/bannerforge/internal/cli"
	"github.com/vonderheiden/bannerforge/pkg/buildinfo"
)

func main() {
	cli.SetVersion(buildinfo.Version, buildinfo.Commit, buildinfo.Date)

	if err := cli.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
