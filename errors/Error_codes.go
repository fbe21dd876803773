package errors

import "strconv"

// ERR is the numeric error code carried by every *Error. Codes are grouped in ranges of ten so that
// GetErrorCategory can classify them for logs and metrics.
type ERR int32

const (
	ERR_UNKNOWN            ERR = 0
	ERR_INVALID_ARGUMENT   ERR = 1
	ERR_THRESHOLD_EXCEEDED ERR = 2
	ERR_NOT_FOUND          ERR = 3
	ERR_PROCESSING         ERR = 4
	ERR_CONFIGURATION      ERR = 5
	ERR_CONTEXT            ERR = 6
	ERR_CONTEXT_CANCELED   ERR = 7
	ERR_ERROR              ERR = 9

	ERR_TX_NOT_FOUND ERR = 30
	ERR_TX_INVALID   ERR = 31
	ERR_TX_ERROR     ERR = 32

	ERR_SERVICE_UNAVAILABLE ERR = 50
	ERR_SERVICE_NOT_STARTED ERR = 51
	ERR_SERVICE_ERROR       ERR = 52

	ERR_STORAGE_UNAVAILABLE ERR = 60
	ERR_STORAGE_NOT_STARTED ERR = 61
	ERR_STORAGE_ERROR       ERR = 62

	ERR_WALLET_NOT_FOUND   ERR = 70
	ERR_WALLET_EXISTS      ERR = 71
	ERR_COIN_NOT_FOUND     ERR = 72
	ERR_INVALID_COIN_STATE ERR = 73
	ERR_PERSISTENCE        ERR = 74

	ERR_NO_BACKUP_HISTORY ERR = 80
	ERR_EMPTY_HISTORY     ERR = 81
	ERR_INVALID_SEQUENCE  ERR = 82

	ERR_INVALID_FEE_RATE ERR = 90
	ERR_FEE_ESTIMATION   ERR = 91
	ERR_SIGNING          ERR = 92
	ERR_BROADCAST        ERR = 93

	ERR_NETWORK_ERROR              ERR = 110
	ERR_NETWORK_TIMEOUT            ERR = 111
	ERR_NETWORK_CONNECTION_REFUSED ERR = 112
	ERR_NETWORK_INVALID_RESPONSE   ERR = 113
)

var ERR_name = map[int32]string{
	0:   "UNKNOWN",
	1:   "INVALID_ARGUMENT",
	2:   "THRESHOLD_EXCEEDED",
	3:   "NOT_FOUND",
	4:   "PROCESSING",
	5:   "CONFIGURATION",
	6:   "CONTEXT",
	7:   "CONTEXT_CANCELED",
	9:   "ERROR",
	30:  "TX_NOT_FOUND",
	31:  "TX_INVALID",
	32:  "TX_ERROR",
	50:  "SERVICE_UNAVAILABLE",
	51:  "SERVICE_NOT_STARTED",
	52:  "SERVICE_ERROR",
	60:  "STORAGE_UNAVAILABLE",
	61:  "STORAGE_NOT_STARTED",
	62:  "STORAGE_ERROR",
	70:  "WALLET_NOT_FOUND",
	71:  "WALLET_EXISTS",
	72:  "COIN_NOT_FOUND",
	73:  "INVALID_COIN_STATE",
	74:  "PERSISTENCE",
	80:  "NO_BACKUP_HISTORY",
	81:  "EMPTY_HISTORY",
	82:  "INVALID_SEQUENCE",
	90:  "INVALID_FEE_RATE",
	91:  "FEE_ESTIMATION",
	92:  "SIGNING",
	93:  "BROADCAST",
	110: "NETWORK_ERROR",
	111: "NETWORK_TIMEOUT",
	112: "NETWORK_CONNECTION_REFUSED",
	113: "NETWORK_INVALID_RESPONSE",
}

var ERR_value = func() map[string]int32 {
	m := make(map[string]int32, len(ERR_name))
	for k, v := range ERR_name {
		m[v] = k
	}

	return m
}()

// Enum returns the symbolic name of the code.
func (x ERR) Enum() string {
	if name, ok := ERR_name[int32(x)]; ok {
		return name
	}

	return strconv.Itoa(int(x))
}

func (x ERR) String() string {
	return x.Enum()
}
