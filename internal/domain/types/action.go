package types

const (
	ActionAuthenticate = "authenticate"
	ActionAuthorize    = "authorize"
	ActionLogin        = "login"

	ActionDatabaseTransactionFailed = "database_transaction_failed"
)
