package cmd

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/orbital-cli/orbital/apiclient"
	"github.com/orbital-cli/orbital/credentials"
)

func newWhoamiCommand(rt *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity behind the stored credential",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := credentials.DefaultPath()
			if err != nil {
				return errors.Wrap(err, "failed to resolve credential path")
			}
			store := credentials.NewStore(path)

			cred := store.Load()
			if cred == nil {
				return errors.New("not logged in, run 'orbital login'")
			}
			if store.IsExpired(credentials.DefaultExpiryMargin) {
				return errors.New("credential has expired, run 'orbital login' again")
			}

			client := apiclient.New(rt.serverURL, cred)
			me, err := client.Me(cmd.Context())
			if err != nil {
				switch {
				case errors.Is(err, apiclient.ErrNoSession), errors.Is(err, apiclient.ErrSessionExpired):
					return errors.New("session is no longer valid, run 'orbital login' again")
				default:
					return errors.Wrap(err, "failed to resolve identity")
				}
			}

			fmt.Printf("Logged in as %s <%s>\n", me.User.Name, me.User.Email)
			fmt.Printf("Session %s expires at %s\n", me.Session.ID, me.Session.ExpiresAt.Local().Format(time.RFC3339))
			return nil
		},
	}
}
