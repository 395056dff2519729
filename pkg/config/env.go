package config

const (
	EnvMongoURI             = "MONGO_URI"
	EnvMongoDatabaseName    = "MONGO_DATABASE_NAME"
	EnvMongoUsername        = "MONGO_USERNAME"
	EnvMongoPassword        = "MONGO_PASSWORD"
	EnvMongoAuthSource      = "MONGO_AUTH_SOURCE"
	EnvMongoConnTimeout     = "MONGO_CONN_TIMEOUT"
	EnvMongoUseTransactions = "MONGO_USE_TRANSACTIONS"

	EnvReadTimeout  = "READ_TIMEOUT"
	EnvWriteTimeout = "WRITE_TIMEOUT"

	EnvContactsCollection = "CONTACTS_COLLECTION"
	EnvAccountsCollection = "ACCOUNTS_COLLECTION"
	EnvBatchSize          = "BATCH_SIZE"
	EnvContinueOnError    = "CONTINUE_ON_ERROR"

	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
)
