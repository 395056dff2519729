package config

import "time"

const (
	DefaultMongoURI             = "mongodb://localhost:27017"
	DefaultMongoDatabaseName    = "crm"
	DefaultMongoAuthSource      = "admin"
	DefaultMongoConnTimeout     = 10 * time.Second
	DefaultMongoUseTransactions = false

	DefaultReadTimeout  = 60 * time.Second
	DefaultWriteTimeout = 15 * time.Second

	DefaultContactsCollection = "Contacts"
	DefaultAccountsCollection = "Accounts"
	DefaultBatchSize          = 20
	DefaultContinueOnError    = false

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)
