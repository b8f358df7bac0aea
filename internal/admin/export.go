package admin

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"ticketing-api/internal/models"
	"ticketing-api/internal/utils"
)

var exportHeader = []string{
	"Purchase ID", "Customer ID", "Customer Email", "Event Name", "Ticket Type",
	"Unit Price", "Quantity", "Line Subtotal", "Total Amount", "Payment Method",
	"Payment Status", "Purchase Date",
}

// ExportPurchasesCSV writes one row per purchased line. Purchase level
// columns are filled on the first line of each purchase only.
func (s *AdminService) ExportPurchasesCSV(ctx context.Context, w io.Writer) error {
	purchases, err := s.DB.ListPurchases(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for i := range purchases {
		for _, row := range purchaseRows(&purchases[i]) {
			if err := cw.Write(row); err != nil {
				return errors.Wrapf(err, "write purchase %d", purchases[i].PurchaseID)
			}
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

func purchaseRows(p *models.Purchase) [][]string {
	email := ""
	if p.Customer != nil {
		email = p.Customer.Email
	}
	head := []string{
		strconv.FormatInt(p.PurchaseID, 10),
		strconv.FormatInt(p.CustomerID, 10),
		email,
	}
	tail := []string{
		p.TotalAmount.StringFixed(2),
		string(p.PaymentMethod),
		string(p.PaymentStatus),
		utils.FormatDateTime(p.PurchaseDate),
	}
	blankHead := make([]string, len(head))
	blankTail := make([]string, len(tail))

	if len(p.Items) == 0 {
		return [][]string{join(head, make([]string, 5), tail)}
	}

	rows := make([][]string, 0, len(p.Items))
	for i, item := range p.Items {
		line := []string{"", "", unitPrice(item), strconv.Itoa(item.Quantity), item.Subtotal.StringFixed(2)}
		if item.Ticket != nil {
			line[1] = item.Ticket.TicketType
			if item.Ticket.Event != nil {
				line[0] = item.Ticket.Event.EventName
			}
		}
		if i == 0 {
			rows = append(rows, join(head, line, tail))
		} else {
			rows = append(rows, join(blankHead, line, blankTail))
		}
	}
	return rows
}

// unitPrice is the price paid per ticket. The tier's current price may have
// changed since the purchase.
func unitPrice(item models.PurchaseTicket) string {
	if item.Quantity <= 0 {
		return item.Subtotal.StringFixed(2)
	}
	return item.Subtotal.Div(decimal.NewFromInt(int64(item.Quantity))).StringFixed(2)
}

func join(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
