package ticket

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"
)

// Ticket holds everything that gets printed on the document.
type Ticket struct {
	BookingRef    string
	PassengerName string
	FlightNo      string
	SeatNumber    string
	Origin        string
	Destination   string
	Departure     time.Time
}

type Generator struct {
	dir string
}

func NewGenerator(dir string) *Generator {
	return &Generator{dir: dir}
}

// Path is the canonical file location for a booking reference. Same reference,
// same file; regeneration overwrites.
func (g *Generator) Path(ref string) string {
	return filepath.Join(g.dir, ref+".pdf")
}

func (g *Generator) Generate(t Ticket) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("create tickets dir: %w", err)
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.AddPage()

	label := func(text string) {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(0, 9, text, "", 1, "L", false, 0, "")
	}
	value := func(text string) {
		pdf.SetFont("Helvetica", "", 14)
		pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
		pdf.Ln(3)
	}

	label("PASSENGER NAME")
	value(t.PassengerName)
	label("FLIGHT")
	value(t.FlightNo)
	label("SEAT")
	value(t.SeatNumber)
	label(fmt.Sprintf("%s -> %s", t.Origin, t.Destination))
	if !t.Departure.IsZero() {
		value(t.Departure.Format("02-01-2006 15:04"))
	} else {
		pdf.Ln(3)
	}

	qr, err := qrcode.Encode(t.BookingRef, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	imgName := "qr-" + t.BookingRef
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(qr))
	pdf.ImageOptions(imgName, 150, 20, 40, 40, false, opts, 0, "")

	pdf.SetY(200)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Booking Ref: %s", t.BookingRef), "", 1, "L", false, 0, "")

	path := g.Path(t.BookingRef)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write ticket %s: %w", path, err)
	}
	return path, nil
}
