// cmd/web/main.go
//
// Storefront – command-line entry point.
//
// Commands
// --------
//
//	web [serve]            run the HTTP server (default)
//	web ping               open a CMS session and print the master ref
//	web links <type> <uid> print the path the link resolver produces
//
// Every command that needs configuration goes through boot(), which
// loads conf/global.yaml (see internal/config), starts the file logger,
// and resolves `vault:` secret references.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yanizio/storefront/internal/config"
	"github.com/yanizio/storefront/internal/logger"
	"github.com/yanizio/storefront/internal/vault"
)

var rootDir string

var rootCmd = &cobra.Command{
	Use:           "web",
	Short:         "Prismic-backed storefront server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "",
		"project root holding conf/global.yaml (default: STOREFRONT_ROOT or discovered)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(linksCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// boot loads configuration, starts logging, and resolves secrets.
func boot(ctx context.Context, tee bool) (*config.Config, *zap.SugaredLogger, error) {
	root := rootDir
	if root == "" {
		root = config.RootDir()
	}
	cfg, err := config.LoadFrom(root)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Log.Dir, cfg.Log.Level, tee && cfg.Log.Tee)
	if err != nil {
		return nil, nil, fmt.Errorf("start logger: %w", err)
	}

	var secrets config.SecretReader
	if cfg.Vault.Enabled {
		cli, err := vault.New(ctx, log)
		if err != nil {
			return nil, nil, err
		}
		secrets = cli
	}
	if err := config.ResolveSecrets(ctx, cfg, secrets); err != nil {
		return nil, nil, fmt.Errorf("resolve secrets: %w", err)
	}
	return cfg, log, nil
}
