package cli

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/testdeck/internal/api"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(app *App) *cobra.Command {
	var listen, token string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the testdeck REST API on the local database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLocal("serve"); err != nil {
				return err
			}
			if listen == "" && app.Config != nil {
				listen = app.Config.ListenAddr
			}
			if token == "" && app.Config != nil {
				token = app.Config.APIToken
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", listen)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", listen, err)
			}

			handler := api.NewRouter(api.Services{
				Teams:    app.Teams,
				Sets:     app.Sets,
				Sections: app.Sections,
				Cases:    app.Cases,
				Import:   app.Import,
			}, api.Options{Token: token, Logger: app.logger()})

			fmt.Fprintf(cmd.OutOrStdout(), "Serving testdeck API on http://%s\n", ln.Addr())
			if token == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Authentication is disabled; set api_token to require a bearer token.")
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return api.Serve(gctx, ln, handler, app.logger())
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default listen_addr from config)")
	cmd.Flags().StringVar(&token, "token", "", "Bearer token required on /api (default api_token from config)")
	return cmd
}
