package main

import (
	"io"
	"time"

	"github.com/commerceblock/mercuryclient/errors"
	"github.com/commerceblock/mercuryclient/model"
	"github.com/gocarina/gocsv"
)

type activityRow struct {
	Utxo   string `csv:"utxo"`
	Amount uint64 `csv:"amount"`
	Action string `csv:"action"`
	Date   string `csv:"date"`
}

// writeActivitiesCSV writes one row per activity, oldest first, with RFC 3339 UTC dates.
func writeActivitiesCSV(w io.Writer, activities []model.Activity) error {
	rows := make([]*activityRow, 0, len(activities))

	for _, a := range activities {
		rows = append(rows, &activityRow{
			Utxo:   a.Utxo,
			Amount: a.Amount,
			Action: string(a.Action),
			Date:   a.Date.UTC().Format(time.RFC3339),
		})
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return errors.NewProcessingError("failed to write activities as csv", err)
	}

	return nil
}
