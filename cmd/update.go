package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/smazurov/bbled/internal/updater"
	"github.com/smazurov/bbled/internal/version"
	"github.com/spf13/cobra"
)

// newUpdateService is replaced in tests.
var newUpdateService = updater.NewService

// CreateUpdateCmd creates the self-update command for releases of repository.
func CreateUpdateCmd(repository string) *cobra.Command {
	var apply, prerelease bool
	var timeout time.Duration

	c := &cobra.Command{
		Use:   "update",
		Short: "Check for (and optionally install) a newer bbled release",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, _ []string) {
			ctx, cancel := context.WithTimeout(c.Context(), timeout)
			defer cancel()

			if err := runUpdate(ctx, c.OutOrStdout(), repository, prerelease, apply); err != nil {
				fmt.Fprintln(c.ErrOrStderr(), "Error:", err)
				exit(1)
			}
		},
	}
	c.Flags().BoolVar(&apply, "apply", false, "Download and install the latest release")
	c.Flags().BoolVar(&prerelease, "prerelease", false, "Include prereleases")
	c.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Give up after this long")
	return c
}

func runUpdate(ctx context.Context, out io.Writer, repository string, prerelease, apply bool) error {
	svc, err := newUpdateService(updater.Options{
		Repository: repository,
		Prerelease: prerelease,
		// The one-shot command exits on its own
		Restart: func() {},
	})
	if err != nil {
		return err
	}
	if !svc.IsEnabled() {
		return fmt.Errorf("self-update unavailable: %s", svc.DisabledReason())
	}

	info, err := svc.CheckForUpdate(ctx)
	if err != nil {
		return err
	}
	if !info.UpdateAvailable {
		fmt.Fprintf(out, "bbled %s is up to date (latest %s)\n", info.CurrentVersion, info.LatestVersion)
		return nil
	}

	fmt.Fprintf(out, "Update available: %s -> %s\n", info.CurrentVersion, info.LatestVersion)
	if info.ReleaseURL != "" {
		fmt.Fprintln(out, info.ReleaseURL)
	}
	if !apply {
		fmt.Fprintln(out, "Run with --apply to install it")
		return nil
	}

	if err := svc.ApplyUpdate(ctx); err != nil {
		if errors.Is(err, updater.ErrNoUpdate) {
			fmt.Fprintln(out, "Already up to date")
			return nil
		}
		return err
	}
	fmt.Fprintf(out, "Installed %s\n", info.LatestVersion)
	return nil
}

// CreateVersionCmd creates the command printing build information.
func CreateVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, _ []string) {
			fmt.Fprint(c.OutOrStdout(), version.Get().String())
		},
	}
}
