package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	mongoMigration "phonesanitizer/internal/migrations/mongo"
	"phonesanitizer/pkg/config"
)

const migrationTimeout = 120 * time.Second

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Ensure the CRM collections and their phone-field indexes exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := connect(cfg); err != nil {
				return err
			}
			defer cfg.GracefulShutdown()

			ctx, cancel := context.WithTimeout(cmd.Context(), migrationTimeout)
			defer cancel()

			db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
			return mongoMigration.RunMigration(ctx, db, cfg.Log,
				mongoMigration.Collections(cfg.ContactsCollection, cfg.AccountsCollection))
		},
	}
}
