package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/you-humble/stockledger/internal/model"
)

const (
	journalSheet = "Journal"
	dateLayout   = "2006-01-02 15:04"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var journalHeader = []any{"Date", "Product", "SKU", "Type", "Quantity", "Customer", "Contact", "Paid", "Comment"}

var typeLabels = map[model.OperationType]string{
	model.OperationPurchase:        "Purchase",
	model.OperationSale:            "Sale",
	model.OperationReserve:         "Reserve",
	model.OperationReserveRelease:  "Reserve release",
	model.OperationSaleFromReserve: "Sale from reserve",
	model.OperationShipOnCredit:    "Ship on credit",
	model.OperationCloseDebt:       "Close debt",
	model.OperationReturn:          "Return",
}

// WriteJournal renders ops as a single-sheet workbook, one row per operation,
// in the order given.
func WriteJournal(w io.Writer, ops []model.OperationView, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", journalSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(journalSheet, "A1", &journalHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(journalSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i, o := range ops {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		qty, _ := o.Quantity.Float64()
		row := []any{
			o.OccurredAt.In(loc).Format(dateLayout),
			o.Product.Name,
			deref(o.Product.SKU),
			typeLabel(o.Type),
			qty,
			deref(o.Customer),
			deref(o.Contact),
			yesNo(o.Paid),
			deref(o.Comment),
		}
		if err := f.SetSheetRow(journalSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(journalSheet, "A", "A", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(journalSheet, "B", "B", 32); err != nil {
		return err
	}
	if err := f.SetColWidth(journalSheet, "I", "I", 40); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func typeLabel(t model.OperationType) string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
