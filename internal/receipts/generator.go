package receipts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"sevatrust-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// ErrNoReceiptNumber is returned when generation is attempted before the
// number was assigned; the number must exist on the record first so webhook
// retries and on-demand regeneration can never mint inconsistent numbers.
var ErrNoReceiptNumber = errors.New("donation has no receipt number")

// Generator renders immutable PDF receipts onto durable storage. The output
// path is keyed by donation id, so repeated generation overwrites in place
// and never duplicates.
type Generator struct {
	Dir string
}

// Path returns the receipt file path for a donation id.
func (g *Generator) Path(donationID uuid.UUID) string {
	return filepath.Join(g.Dir, fmt.Sprintf("receipt-%s.pdf", donationID))
}

// Generate renders the receipt PDF for a finalized donation and returns the
// file path. Safe to invoke twice for the same donation.
func (g *Generator) Generate(d *models.Donation) (string, error) {
	if d.ReceiptNumber == nil || *d.ReceiptNumber == "" {
		return "", ErrNoReceiptNumber
	}
	if err := os.MkdirAll(g.Dir, 0o755); err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Donation Receipt "+*d.ReceiptNumber, false)
	pdf.AddPage()

	pdf.SetFont("Times", "B", 20)
	pdf.CellFormat(0, 12, "Seva Trust", "", 1, "C", false, 0, "")
	pdf.SetFont("Times", "", 11)
	pdf.CellFormat(0, 6, "Registered Charitable Trust", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Times", "B", 14)
	pdf.CellFormat(0, 10, "DONATION RECEIPT", "T", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Times", "", 12)
	row := func(label, value string) {
		pdf.SetFont("Times", "B", 12)
		pdf.CellFormat(55, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Times", "", 12)
		pdf.MultiCell(0, 8, value, "", "L", false)
	}

	row("Receipt No.", *d.ReceiptNumber)
	row("Date", d.CreatedAt.Format("02 Jan 2006"))
	row("Donor Name", d.DonorName)
	row("Mobile", d.DonorMobile)
	if d.DonorEmail != "" {
		row("Email", d.DonorEmail)
	}
	if addr := d.DonorAddress.Display(); addr != "" {
		row("Address", addr)
	}
	row("ID Proof", fmt.Sprintf("%s %s", d.IDType, d.IDNumber))
	row("Donation Towards", d.HeadName)
	row("Payment Method", d.Method)
	if d.GatewayPaymentID != "" {
		row("Payment Reference", d.GatewayPaymentID)
	}
	pdf.Ln(4)

	pdf.SetFont("Times", "B", 13)
	pdf.CellFormat(0, 10, fmt.Sprintf("Amount: Rs. %.2f", d.Amount), "TB", 1, "L", false, 0, "")
	pdf.SetFont("Times", "I", 11)
	pdf.MultiCell(0, 8, fmt.Sprintf("(%s)", AmountInWords(d.Amount)), "", "L", false)
	pdf.Ln(10)

	pdf.SetFont("Times", "", 9)
	pdf.MultiCell(0, 5, "This is a computer-generated receipt and does not require a signature. Donations to Seva Trust may be eligible for deduction under section 80G of the Income Tax Act, 1961.", "", "L", false)

	path := g.Path(d.ID)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", err
	}
	return path, nil
}
