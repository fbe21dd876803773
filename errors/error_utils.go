// Package errors provides the coded error type used across the statechain client, plus helpers for
// categorizing errors for logs, metrics and retry decisions.
package errors

import (
	"context"
	"errors"
	"strings"
)

// IsRetryableError reports whether an operation that failed with err is worth another attempt.
// Context errors never are. A broadcast failure is retried only when it was caused by the transport,
// never when the node rejected the transaction.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var tErr *Error
	if !As(err, &tErr) {
		return false
	}

	switch tErr.Code() {
	case ERR_NETWORK_TIMEOUT,
		ERR_NETWORK_ERROR,
		ERR_NETWORK_CONNECTION_REFUSED,
		ERR_SERVICE_UNAVAILABLE,
		ERR_STORAGE_UNAVAILABLE:
		return true
	case ERR_BROADCAST:
		return tErr.WrappedErr() != nil && IsNetworkError(tErr.WrappedErr())
	}

	return false
}

// networkHints are matched against errors that come straight from net/http or the RPC client.
var networkHints = []string{
	"network",
	"connection",
	"timeout",
	"dial tcp",
	"no such host",
	"broken pipe",
	"eof",
	"http",
}

// IsNetworkError reports a Network* coded error, or an uncoded error whose text looks like a
// transport failure.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}

	var tErr *Error
	if As(err, &tErr) {
		switch tErr.Code() {
		case ERR_NETWORK_ERROR,
			ERR_NETWORK_TIMEOUT,
			ERR_NETWORK_CONNECTION_REFUSED,
			ERR_NETWORK_INVALID_RESPONSE:
			return true
		}
	}

	msg := strings.ToLower(err.Error())

	for _, hint := range networkHints {
		if strings.Contains(msg, hint) {
			return true
		}
	}

	return false
}

// IsContextError reports cancellation or a missed deadline anywhere in the chain.
func IsContextError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var tErr *Error
	if As(err, &tErr) {
		return tErr.Code() == ERR_CONTEXT_CANCELED || tErr.Code() == ERR_CONTEXT
	}

	return false
}

var codeCategories = []struct {
	from, to ERR
	name     string
}{
	{ERR_INVALID_ARGUMENT, ERR_ERROR, "generic"},
	{ERR_TX_NOT_FOUND, ERR_TX_ERROR, "transaction"},
	{ERR_SERVICE_UNAVAILABLE, ERR_SERVICE_ERROR, "service"},
	{ERR_STORAGE_UNAVAILABLE, ERR_STORAGE_ERROR, "storage"},
	{ERR_WALLET_NOT_FOUND, ERR_PERSISTENCE, "wallet"},
	{ERR_NO_BACKUP_HISTORY, ERR_INVALID_SEQUENCE, "ledger"},
	{ERR_INVALID_FEE_RATE, ERR_BROADCAST, "withdrawal"},
	{ERR_NETWORK_ERROR, ERR_NETWORK_INVALID_RESPONSE, "network"},
}

// GetErrorCategory is the low-cardinality "category" label of the error metrics: none, context,
// network, unavailable, or the code family of the outermost coded error (wallet, ledger, ...).
func GetErrorCategory(err error) string {
	if err == nil {
		return "none"
	}

	if IsContextError(err) {
		return "context"
	}

	if IsNetworkError(err) {
		return "network"
	}

	var tErr *Error
	if !As(err, &tErr) {
		return "unknown"
	}

	code := tErr.Code()

	if code == ERR_SERVICE_UNAVAILABLE || code == ERR_STORAGE_UNAVAILABLE {
		return "unavailable"
	}

	for _, c := range codeCategories {
		if code >= c.from && code <= c.to {
			return c.name
		}
	}

	return "unknown"
}
