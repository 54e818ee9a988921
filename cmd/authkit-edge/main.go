// Command authkit-edge runs a session-aware edge server in front of an
// application and offers a client that reads access tokens from it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "authkit-edge",
		Short: "Session edge for hosted authentication",
		Long: `authkit-edge keeps encrypted WorkOS sessions fresh at the edge.

It verifies access tokens, refreshes expired sessions, hands the
session to downstream handlers through internal headers and serves
the sign-in callback, sign-out and access-token endpoints.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		tokenCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
