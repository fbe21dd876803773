package ledger

import (
	"bytes"
	"cmp"
	"encoding/hex"
	"slices"

	"github.com/btcsuite/btcd/wire"
	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/model"
)

// DecodeTx parses a hex encoded, serialized bitcoin transaction.
func DecodeTx(txHex string) (*wire.MsgTx, error) {
	b, err := hex.DecodeString(txHex)
	if err != nil {
		return nil, errors.NewTxInvalidError("transaction is not valid hex", err)
	}

	msgTx := wire.NewMsgTx(wire.TxVersion)
	if err = msgTx.Deserialize(bytes.NewReader(b)); err != nil {
		return nil, errors.NewTxInvalidError("failed to deserialize transaction", err)
	}

	return msgTx, nil
}

// EncodeTx serializes msgTx to hex.
func EncodeTx(msgTx *wire.MsgTx) (string, error) {
	var buf bytes.Buffer

	if err := msgTx.Serialize(&buf); err != nil {
		return "", errors.NewTxInvalidError("failed to serialize transaction", err)
	}

	return hex.EncodeToString(buf.Bytes()), nil
}

// Txid returns the id of a hex encoded transaction in the usual byte reversed notation.
func Txid(txHex string) (string, error) {
	msgTx, err := DecodeTx(txHex)
	if err != nil {
		return "", err
	}

	return msgTx.TxHash().String(), nil
}

// Tx0Outpoint returns the funding outpoint of the coin: the single input of the lowest numbered
// backup transaction, which must have exactly one input and one output.
func Tx0Outpoint(entries []model.BackupTx) (wire.OutPoint, error) {
	if len(entries) == 0 {
		return wire.OutPoint{}, errors.NewEmptyHistoryError("no backup transaction found")
	}

	first := slices.MinFunc(entries, func(a, b model.BackupTx) int {
		return cmp.Compare(a.TxN, b.TxN)
	})

	msgTx, err := DecodeTx(first.Tx)
	if err != nil {
		return wire.OutPoint{}, err
	}

	if len(msgTx.TxIn) != 1 {
		return wire.OutPoint{}, errors.NewTxInvalidError("backup tx %d has %d inputs, expected 1", first.TxN, len(msgTx.TxIn))
	}

	if len(msgTx.TxOut) != 1 {
		return wire.OutPoint{}, errors.NewTxInvalidError("backup tx %d has %d outputs, expected 1", first.TxN, len(msgTx.TxOut))
	}

	return msgTx.TxIn[0].PreviousOutPoint, nil
}
