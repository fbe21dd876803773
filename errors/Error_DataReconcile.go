package errors

import "fmt"

// ReconcileErrData is attached to a persistence error raised after a withdrawal transaction has been
// recorded in the backup ledger but the wallet could not be saved. The wallet must be reconciled
// against the ledger for the given coin before the coin can be used again.
type ReconcileErrData struct {
	StatechainID string `json:"statechain_id"`
	Txid         string `json:"txid"`
}

func (e *ReconcileErrData) Error() string {
	return fmt.Sprintf("reconciliation required for statechain %s (withdrawal tx %s)", e.StatechainID, e.Txid)
}

func (e *ReconcileErrData) SetData(key string, value interface{}) {
	s, ok := value.(string)
	if !ok {
		return
	}

	switch key {
	case "statechain_id":
		e.StatechainID = s
	case "txid":
		e.Txid = s
	}
}

func (e *ReconcileErrData) GetData(key string) interface{} {
	switch key {
	case "statechain_id":
		return e.StatechainID
	case "txid":
		return e.Txid
	}

	return nil
}

// NewReconciliationError returns a persistence error flagged as requiring reconciliation.
func NewReconciliationError(statechainID string, txid string, cause error) error {
	e := New(ERR_PERSISTENCE, "wallet save failed after ledger append for statechain %s", statechainID, cause)
	e.data = &ReconcileErrData{
		StatechainID: statechainID,
		Txid:         txid,
	}

	return e
}

// IsReconciliationRequired reports whether err carries reconciliation data, returning it when present.
func IsReconciliationRequired(err error) (*ReconcileErrData, bool) {
	if err == nil {
		return nil, false
	}

	var data *ReconcileErrData
	if AsData(err, &data) {
		return data, true
	}

	return nil, false
}
