package events

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/testgcahm/gis/ordering"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// EventQR serves a PNG QR code pointing at the event's public page, sized
// for posters and flyers.
func (h *Handler) EventQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	event, ok := h.fetchEvent(w, r, ps.ByName("slug"))
	if !ok {
		return
	}

	png, err := qrcode.Encode(h.baseURL+"events/"+event.Slug, qrcode.Medium, 512)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// EventProgramme renders a printable PDF programme: event details, speakers,
// and the segment schedule, with a QR code to the event page in the corner.
func (h *Handler) EventProgramme(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	event, ok := h.fetchEvent(w, r, ps.ByName("slug"))
	if !ok {
		return
	}
	ordering.SortSubevents(event.Subevents)

	qrPNG, err := qrcode.Encode(h.baseURL+"events/"+event.Slug, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, event.Title)
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", event.Date))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Time: %s", event.Time))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Venue: %s", event.Venue))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Audience: %s", event.Audience))
	pdf.Ln(10)

	if len(event.Speakers) > 0 {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 9, "Speakers")
		pdf.Ln(9)
		pdf.SetFont("Arial", "", 11)
		for _, sp := range event.Speakers {
			line := sp.Name
			if sp.Bio != "" {
				line += " - " + sp.Bio
			}
			pdf.MultiCell(0, 6, line, "", "L", false)
			pdf.Ln(1)
		}
		pdf.Ln(4)
	}

	if len(event.Subevents) > 0 {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 9, "Programme")
		pdf.Ln(9)
		for _, sub := range event.Subevents {
			pdf.SetFont("Arial", "B", 11)
			pdf.Cell(0, 7, fmt.Sprintf("%s - %s", sub.Time, sub.Title))
			pdf.Ln(6)
			if sub.Description != "" {
				pdf.SetFont("Arial", "", 10)
				pdf.MultiCell(0, 5, sub.Description, "", "L", false)
			}
			pdf.Ln(2)
		}
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 165, 10, 35, 35, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=programme-"+event.Slug+".pdf")
	w.Write(buf.Bytes())
}
