package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/migrate"
)

// newStorageCmd manages the local sqlite schema. It overrides the root pre-run so no API call is made.
func newStorageCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Manage the local storage database",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			if c.cfg.Storage.Driver != config.StorageDriverSQLite {
				return fmt.Errorf("storage driver %q has no schema to manage", c.cfg.Storage.Driver)
			}
			return nil
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply pending schema migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				client, err := db.New(c.ctx(cmd), c.cfg.Storage.Path, c.logg)
				if err != nil {
					return err
				}
				defer client.Close()
				sqlDB, err := client.SQL()
				if err != nil {
					return err
				}
				if err := migrate.Up(c.ctx(cmd), sqlDB); err != nil {
					return err
				}
				version, err := migrate.Version(c.ctx(cmd), sqlDB)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s migrated to version %d\n", c.cfg.Storage.Path, version)
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the schema version and whether migrations are pending",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				client, err := db.New(c.ctx(cmd), c.cfg.Storage.Path, c.logg)
				if err != nil {
					return err
				}
				defer client.Close()
				sqlDB, err := client.SQL()
				if err != nil {
					return err
				}
				version, err := migrate.Version(c.ctx(cmd), sqlDB)
				if err != nil {
					return err
				}
				pending, err := migrate.Pending(c.ctx(cmd), sqlDB)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "path: %s\nversion: %d\npending: %t\n", c.cfg.Storage.Path, version, pending)
				return nil
			},
		},
	)
	return cmd
}
