// Package export writes crawl results as CSV for downstream tooling.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"tienda/pricewatch/internal/models"
)

// timeLayout is the timestamp format downstream spreadsheet tooling expects.
const timeLayout = "2006-01-02 15:04:05"

// WriteRunSummary writes one row per price change, in observation order.
func WriteRunSummary(w io.Writer, changes []models.PriceChange) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"product_id", "name", "old_price", "new_price", "change_date"}); err != nil {
		return err
	}
	for _, c := range changes {
		record := []string{
			c.ProductID,
			c.Name,
			formatPrice(c.OldPrice),
			formatPrice(c.NewPrice),
			c.ObservedAt.Format(timeLayout),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteProducts writes the current product table.
func WriteProducts(w io.Writer, products []models.Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "last_price", "unit_size", "last_update"}); err != nil {
		return err
	}
	for _, p := range products {
		size := ""
		if p.UnitSize != nil {
			size = formatPrice(*p.UnitSize)
		}
		record := []string{
			p.ID,
			p.Name,
			formatPrice(p.LastPrice),
			size,
			p.LastUpdate.Format(timeLayout),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatPrice(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
