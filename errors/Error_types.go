package errors

var (
	ErrUnknown               = New(ERR_UNKNOWN, "unknown error")
	ErrInvalidArgument       = New(ERR_INVALID_ARGUMENT, "invalid argument")
	ErrThresholdExceeded     = New(ERR_THRESHOLD_EXCEEDED, "threshold exceeded")
	ErrNotFound              = New(ERR_NOT_FOUND, "not found")
	ErrProcessing            = New(ERR_PROCESSING, "error processing")
	ErrConfiguration         = New(ERR_CONFIGURATION, "configuration error")
	ErrContext               = New(ERR_CONTEXT, "context error")
	ErrContextCanceled       = New(ERR_CONTEXT_CANCELED, "context canceled")
	ErrError                 = New(ERR_ERROR, "generic error")
	ErrTxNotFound            = New(ERR_TX_NOT_FOUND, "tx not found")
	ErrTxInvalid             = New(ERR_TX_INVALID, "tx invalid")
	ErrTxError               = New(ERR_TX_ERROR, "tx error")
	ErrServiceUnavailable    = New(ERR_SERVICE_UNAVAILABLE, "service unavailable")
	ErrServiceNotStarted     = New(ERR_SERVICE_NOT_STARTED, "service not started")
	ErrServiceError          = New(ERR_SERVICE_ERROR, "service error")
	ErrStorageUnavailable    = New(ERR_STORAGE_UNAVAILABLE, "storage unavailable")
	ErrStorageNotStarted     = New(ERR_STORAGE_NOT_STARTED, "storage not started")
	ErrStorageError          = New(ERR_STORAGE_ERROR, "storage error")
	ErrWalletNotFound        = New(ERR_WALLET_NOT_FOUND, "wallet not found")
	ErrWalletExists          = New(ERR_WALLET_EXISTS, "wallet already exists")
	ErrCoinNotFound          = New(ERR_COIN_NOT_FOUND, "coin not found")
	ErrInvalidCoinState      = New(ERR_INVALID_COIN_STATE, "invalid coin state")
	ErrPersistence           = New(ERR_PERSISTENCE, "persistence error")
	ErrNoBackupHistory       = New(ERR_NO_BACKUP_HISTORY, "no backup transaction history")
	ErrEmptyHistory          = New(ERR_EMPTY_HISTORY, "empty backup transaction history")
	ErrInvalidSequence       = New(ERR_INVALID_SEQUENCE, "invalid backup transaction sequence")
	ErrInvalidFeeRate        = New(ERR_INVALID_FEE_RATE, "invalid fee rate")
	ErrFeeEstimation         = New(ERR_FEE_ESTIMATION, "fee estimation failed")
	ErrSigning               = New(ERR_SIGNING, "signing failed")
	ErrBroadcast             = New(ERR_BROADCAST, "broadcast failed")
	ErrNetwork               = New(ERR_NETWORK_ERROR, "network error")
	ErrNetworkTimeout        = New(ERR_NETWORK_TIMEOUT, "network timeout")
	ErrNetworkConnRefused    = New(ERR_NETWORK_CONNECTION_REFUSED, "network connection refused")
	ErrNetworkInvalidResonse = New(ERR_NETWORK_INVALID_RESPONSE, "network invalid response")
)

// errors initialization functions

func NewUnknownError(message string, params ...interface{}) error {
	return New(ERR_UNKNOWN, message, params...)
}
func NewInvalidArgumentError(message string, params ...interface{}) error {
	return New(ERR_INVALID_ARGUMENT, message, params...)
}
func NewThresholdExceededError(message string, params ...interface{}) error {
	return New(ERR_THRESHOLD_EXCEEDED, message, params...)
}
func NewNotFoundError(message string, params ...interface{}) error {
	return New(ERR_NOT_FOUND, message, params...)
}
func NewProcessingError(message string, params ...interface{}) error {
	return New(ERR_PROCESSING, message, params...)
}
func NewConfigurationError(message string, params ...interface{}) error {
	return New(ERR_CONFIGURATION, message, params...)
}
func NewContextError(message string, params ...interface{}) error {
	return New(ERR_CONTEXT, message, params...)
}
func NewContextCanceledError(message string, params ...interface{}) error {
	return New(ERR_CONTEXT_CANCELED, message, params...)
}
func NewError(message string, params ...interface{}) error {
	return New(ERR_ERROR, message, params...)
}
func NewTxNotFoundError(message string, params ...interface{}) error {
	return New(ERR_TX_NOT_FOUND, message, params...)
}
func NewTxInvalidError(message string, params ...interface{}) error {
	return New(ERR_TX_INVALID, message, params...)
}
func NewTxError(message string, params ...interface{}) error {
	return New(ERR_TX_ERROR, message, params...)
}
func NewServiceUnavailableError(message string, params ...interface{}) error {
	return New(ERR_SERVICE_UNAVAILABLE, message, params...)
}
func NewServiceNotStartedError(message string, params ...interface{}) error {
	return New(ERR_SERVICE_NOT_STARTED, message, params...)
}
func NewServiceError(message string, params ...interface{}) error {
	return New(ERR_SERVICE_ERROR, message, params...)
}
func NewStorageUnavailableError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_UNAVAILABLE, message, params...)
}
func NewStorageNotStartedError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_NOT_STARTED, message, params...)
}
func NewStorageError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_ERROR, message, params...)
}
func NewWalletNotFoundError(message string, params ...interface{}) error {
	return New(ERR_WALLET_NOT_FOUND, message, params...)
}
func NewWalletExistsError(message string, params ...interface{}) error {
	return New(ERR_WALLET_EXISTS, message, params...)
}
func NewCoinNotFoundError(message string, params ...interface{}) error {
	return New(ERR_COIN_NOT_FOUND, message, params...)
}
func NewInvalidCoinStateError(message string, params ...interface{}) error {
	return New(ERR_INVALID_COIN_STATE, message, params...)
}
func NewPersistenceError(message string, params ...interface{}) error {
	return New(ERR_PERSISTENCE, message, params...)
}
func NewNoBackupHistoryError(message string, params ...interface{}) error {
	return New(ERR_NO_BACKUP_HISTORY, message, params...)
}
func NewEmptyHistoryError(message string, params ...interface{}) error {
	return New(ERR_EMPTY_HISTORY, message, params...)
}
func NewInvalidSequenceError(message string, params ...interface{}) error {
	return New(ERR_INVALID_SEQUENCE, message, params...)
}
func NewInvalidFeeRateError(message string, params ...interface{}) error {
	return New(ERR_INVALID_FEE_RATE, message, params...)
}
func NewFeeEstimationError(message string, params ...interface{}) error {
	return New(ERR_FEE_ESTIMATION, message, params...)
}
func NewSigningError(message string, params ...interface{}) error {
	return New(ERR_SIGNING, message, params...)
}
func NewBroadcastError(message string, params ...interface{}) error {
	return New(ERR_BROADCAST, message, params...)
}
func NewNetworkError(message string, params ...interface{}) error {
	return New(ERR_NETWORK_ERROR, message, params...)
}
func NewNetworkTimeoutError(message string, params ...interface{}) error {
	return New(ERR_NETWORK_TIMEOUT, message, params...)
}
func NewNetworkConnectionRefusedError(message string, params ...interface{}) error {
	return New(ERR_NETWORK_CONNECTION_REFUSED, message, params...)
}
func NewNetworkInvalidResponseError(message string, params ...interface{}) error {
	return New(ERR_NETWORK_INVALID_RESPONSE, message, params...)
}
