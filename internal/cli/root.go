package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"phonesanitizer/pkg/config"
)

const ServiceName = "phone-sanitizer"

// NewRootCmd creates the phone-sanitizer command. Flag defaults come from cfg,
// which was loaded from the environment, so a flag given on the command line
// overrides its environment variable.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   ServiceName,
		Short: "Normalize phone numbers in CRM contacts and accounts",
		Long: `Rewrites every tracked phone field of the Contacts and Accounts collections
to digits only, committing changed records in fixed-size batches.

Each scanned record is echoed to stdout as "<name> <phone>|<phone>|...".`,
		Example: `  # Sanitize using MONGO_* environment variables
  phone-sanitizer

  # Explicit store and credentials
  phone-sanitizer --mongo-uri mongodb://crm-db:27017 --username svc --password secret --auth-source admin

  # Keep going with Accounts when Contacts fail
  phone-sanitizer --continue-on-error`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSanitize(cmd, cfg)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.MongoURI, "mongo-uri", cfg.MongoURI, "MongoDB connection URI")
	flags.StringVar(&cfg.MongoUsername, "username", cfg.MongoUsername, "user allowed to update CRM records")
	flags.StringVar(&cfg.MongoPassword, "password", cfg.MongoPassword, "password for --username")
	flags.StringVar(&cfg.MongoAuthSource, "auth-source", cfg.MongoAuthSource, "authentication database for --username")
	flags.StringVar(&cfg.MongoDatabaseName, "database", cfg.MongoDatabaseName, "database holding the CRM collections")

	cmd.Flags().IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "changed records per commit")
	cmd.Flags().BoolVar(&cfg.ContinueOnError, "continue-on-error", cfg.ContinueOnError, "sanitize Accounts even if Contacts fail")

	cmd.AddCommand(newMigrateCmd(cfg))

	return cmd
}

// ErrorMessage renders err as the single line printed on failure.
func ErrorMessage(err error) string {
	return strings.Join(strings.Fields(err.Error()), " ")
}
