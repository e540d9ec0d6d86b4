// Package sheet renders a printable PDF pool sheet for a character: one
// gauge per pool plus the next recovery roll.
package sheet

import (
	"bytes"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf/v2"

	"cypher/internal/game"
)

const (
	pageW     = 595
	pageH     = 842
	margin    = 40
	gaugeW    = 360.0
	gaugeH    = 22.0
	rowStep   = 70.0
	fontSize  = 10
	titleSize = 18
	labelSize = 12
)

// pool colours, in game.Pools order
var poolInk = [3][3]int{
	{170, 45, 40}, // might
	{40, 120, 70}, // speed
	{45, 80, 160}, // intellect
}

// Generate returns PDF bytes for the character's pool sheet. title is
// printed under the character name when set.
func Generate(ch game.Character, pools game.CharacterPoolSet, recovery game.Attribute, title string) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFillColor(245, 240, 228)
	pdf.Rect(0, 0, pageW, pageH, "F")
	drawBorder(pdf)

	pdf.SetTextColor(40, 30, 25)
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.SetXY(margin+10, margin+14)
	name := ch.Name
	if name == "" {
		name = ch.ID
	}
	pdf.CellFormat(pageW-2*margin-20, 20, name, "", 0, "L", false, 0, "")
	if title != "" {
		pdf.SetFont("Helvetica", "I", fontSize)
		pdf.SetXY(margin+10, margin+36)
		pdf.CellFormat(pageW-2*margin-20, 12, title, "", 0, "L", false, 0, "")
	}

	y := float64(margin) + 90
	for i, p := range game.Pools {
		drawGauge(pdf, margin+10, y, p.String(), *pools.Get(p), poolInk[i])
		y += rowStep
	}

	pdf.SetDrawColor(40, 30, 25)
	pdf.SetLineWidth(1)
	pdf.Line(margin+10, y, pageW-margin-10, y)
	y += 16
	pdf.SetFont("Helvetica", "B", labelSize)
	pdf.SetXY(margin+10, y)
	pdf.CellFormat(160, 16, "Next recovery roll", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", labelSize)
	pdf.CellFormat(60, 16, fmt.Sprintf("%d", recovery.Current), "1", 0, "C", false, 0, "")

	if pools.Total() <= 0 {
		y += 36
		pdf.SetTextColor(170, 45, 40)
		pdf.SetFont("Helvetica", "B", labelSize)
		pdf.SetXY(margin+10, y)
		pdf.CellFormat(pageW-2*margin-20, 16, "Incapacitated", "", 0, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawGauge draws a labelled bar filled to current/max.
func drawGauge(pdf *gofpdf.Fpdf, x, y float64, label string, a game.Attribute, ink [3]int) {
	pdf.SetTextColor(40, 30, 25)
	pdf.SetFont("Helvetica", "B", labelSize)
	pdf.SetXY(x, y)
	pdf.CellFormat(100, 16, capitalize(label), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", fontSize)
	pdf.SetXY(x+gaugeW-40, y)
	pdf.CellFormat(140, 16, fmt.Sprintf("%d / %d", a.Current, a.Max), "", 0, "R", false, 0, "")

	top := y + 20
	pdf.SetDrawColor(40, 30, 25)
	pdf.SetLineWidth(1.2)
	pdf.Rect(x, top, gaugeW+100, gaugeH, "D")
	if fill := fillWidth(a, gaugeW+100); fill > 0 {
		pdf.SetFillColor(ink[0], ink[1], ink[2])
		pdf.Rect(x, top, fill, gaugeH, "F")
	}
	pdf.SetLineWidth(1)
}

// fillWidth is the filled part of a gauge of width w.
func fillWidth(a game.Attribute, w float64) float64 {
	if a.Max <= 0 || a.Current <= 0 {
		return 0
	}
	return math.Min(1, float64(a.Current)/float64(a.Max)) * w
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

// drawBorder draws a double frame around the page.
func drawBorder(pdf *gofpdf.Fpdf) {
	pdf.SetDrawColor(40, 30, 25)
	pdf.SetLineWidth(2)
	pdf.Rect(margin, margin, pageW-2*margin, pageH-2*margin, "D")
	pdf.SetLineWidth(0.5)
	pdf.Rect(margin+4, margin+4, pageW-2*margin-8, pageH-2*margin-8, "D")
	pdf.SetLineWidth(1)
}
