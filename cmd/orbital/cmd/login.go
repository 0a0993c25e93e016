package cmd

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/orbital-cli/orbital/credentials"
	"github.com/orbital-cli/orbital/deviceflow"
)

func newLoginCommand(rt *runtimeState) *cobra.Command {
	var (
		scope     string
		noBrowser bool
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in through the device authorization flow",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			path, err := credentials.DefaultPath()
			if err != nil {
				return errors.Wrap(err, "failed to resolve credential path")
			}
			store := credentials.NewStore(path)

			if !force {
				if cred := store.Load(); cred != nil && !store.IsExpired(credentials.DefaultExpiryMargin) {
					fmt.Println("Already logged in. Use --force to reauthenticate.")
					return nil
				}
			}

			endpoints, err := deviceflow.DiscoverEndpoints(ctx, rt.serverURL, http.DefaultClient)
			if err != nil {
				return errors.Wrap(err, "failed to discover endpoints")
			}

			requester := deviceflow.NewRequester(endpoints.DeviceAuthorizationURL)
			session, err := requester.RequestDeviceCode(ctx, rt.clientID, scope)
			if err != nil {
				return errors.Wrap(err, "failed to start device authorization")
			}

			fmt.Printf("Visit %s and enter code: %s\n", session.VerificationURI, session.UserCode)
			if !noBrowser {
				_ = openBrowser(session.VerificationTarget())
			}
			fmt.Println("Waiting for approval...")

			poller := deviceflow.NewPoller(endpoints.TokenURL)
			result, err := poller.Poll(ctx, session, rt.clientID)
			if err != nil {
				switch {
				case errors.Is(err, deviceflow.ErrAccessDenied):
					return errors.New("authorization was denied")
				case errors.Is(err, deviceflow.ErrExpired):
					return errors.New("device code expired before approval, run login again")
				default:
					return errors.Wrap(err, "authorization failed")
				}
			}

			// A token that cannot be persisted is useless to later
			// invocations, so a failed save fails the login.
			if err := store.Save(result.Token, result.Scope); err != nil {
				return errors.Wrap(err, "failed to store credentials")
			}

			fmt.Printf("Logged in. Credentials saved to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "openid profile email", "Scopes to request")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not open the verification page in a browser")
	cmd.Flags().BoolVar(&force, "force", false, "Reauthenticate even when a valid credential exists")
	return cmd
}
