package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ariefcatur/go-warung-pos/internal/orders"
	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary      = "Ringkasan"
	sheetTransactions = "Transaksi"
)

// WriteXLSX renders the revenue report as a two-sheet workbook.
func WriteXLSX(w io.Writer, rep Revenue, loc *time.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return err
	}
	rows := [][]any{
		{"Periode", rep.Start + " s/d " + rep.End},
		{"Granularitas", string(rep.Granularity)},
		{"Total Pendapatan", rep.Total},
		{"Jumlah Pesanan", rep.OrderCount},
		{},
		{"Tanggal", "Pesanan", "Pendapatan"},
	}
	for _, b := range rep.Buckets {
		rows = append(rows, []any{b.Key, b.Orders, b.Total})
	}
	if err := writeRows(f, sheetSummary, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetTransactions); err != nil {
		return err
	}
	rows = [][]any{{"No. Pesanan", "Waktu", "Tanggal Layanan", "Pelanggan", "Item", "Total", "Lunas"}}
	for _, o := range rep.Transactions {
		paid := "Belum"
		if o.IsPaid {
			paid = "Ya"
		}
		rows = append(rows, []any{
			orders.ShortID(o.ID),
			o.CreatedAt.In(loc).Format("2006-01-02 15:04"),
			o.TargetDate(loc),
			o.CustomerName,
			describeItems(o),
			o.Total,
			paid,
		})
	}
	if err := writeRows(f, sheetTransactions, rows); err != nil {
		return err
	}
	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func describeItems(o orders.Order) string {
	parts := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		parts = append(parts, fmt.Sprintf("%dx %s", it.Quantity, KitchenKey(it.Name, it.Variant)))
	}
	return strings.Join(parts, ", ")
}
