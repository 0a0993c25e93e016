package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/orbital-cli/orbital/credentials"
)

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored credential",
		RunE: func(_ *cobra.Command, _ []string) error {
			path, err := credentials.DefaultPath()
			if err != nil {
				return errors.Wrap(err, "failed to resolve credential path")
			}
			store := credentials.NewStore(path)

			loggedIn := store.Load() != nil
			if err := store.Clear(); err != nil {
				return errors.Wrap(err, "failed to remove credentials")
			}
			if loggedIn {
				fmt.Println("Logged out.")
			} else {
				fmt.Println("Not logged in.")
			}
			return nil
		},
	}
}
