// Package cmd wires up the orbital command line tool.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

type runtimeState struct {
	serverURL string
	clientID  string
}

// NewRootCommand builds the orbital command tree.
func NewRootCommand() *cobra.Command {
	rt := &runtimeState{}

	root := &cobra.Command{
		Use:           "orbital",
		Short:         "Orbital CLI",
		Long:          "Command line client for the Orbital API. Authenticates through the OAuth2 device flow.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if rt.serverURL == "" {
				rt.serverURL = os.Getenv("ORBITAL_SERVER_URL")
			}
			if rt.serverURL == "" {
				rt.serverURL = "http://localhost:8080"
			}
			if rt.clientID == "" {
				rt.clientID = os.Getenv("ORBITAL_CLIENT_ID")
			}
			if rt.clientID == "" {
				rt.clientID = "orbital-cli"
			}
		},
	}

	root.PersistentFlags().StringVar(&rt.serverURL, "server-url", "", "Base URL of the Orbital server (env ORBITAL_SERVER_URL)")
	root.PersistentFlags().StringVar(&rt.clientID, "client-id", "", "OAuth2 client identifier (env ORBITAL_CLIENT_ID)")

	root.AddCommand(
		newLoginCommand(rt),
		newLogoutCommand(),
		newWhoamiCommand(rt),
	)
	return root
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCommand().Execute()
}
