// cmd/web/ping.go
//
// `web ping` – connectivity check.  Opens one session against the
// configured repository and prints the ref it is bound to.  A rejected
// endpoint or token prints the same message visitors would see.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yanizio/storefront/internal/prismic"
	"github.com/yanizio/storefront/internal/storefront"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Open a CMS session and print the master ref",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := boot(cmd.Context(), false)
		if err != nil {
			return err
		}

		client, err := prismic.New(cfg.Prismic.Endpoint, prismic.WithTimeout(cfg.Prismic.Timeout))
		if err != nil {
			return err
		}
		sess, err := client.Open(cmd.Context(), prismic.SessionOptions{AccessToken: cfg.Prismic.AccessToken})
		if err != nil {
			return fmt.Errorf("%s (%w)", storefront.ClassifyOpen(err).Message(), err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "endpoint: %s\n", client.Endpoint())
		fmt.Fprintf(out, "ref:      %s\n", sess.Ref())
		fmt.Fprintf(out, "types:    %d\n", len(sess.API().Types))
		return nil
	},
}
