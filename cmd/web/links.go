// cmd/web/links.go
//
// `web links <type> <uid>` – prints the path the link resolver gives a
// document, the same path templates and the preview bridge redirect to.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yanizio/storefront/internal/storefront"
)

var linksCmd = &cobra.Command{
	Use:   "links <type> <uid>",
	Short: "Print the site path for a document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), storefront.LinkResolver(args[0], args[1]))
		return nil
	},
}
