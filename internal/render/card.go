package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	cardWidth  = 400
	cardHeight = 250
)

// ReceiptCard is everything printed on one intake card.
type ReceiptCard struct {
	UniqueNumber      string
	SupplierShortName string
	InvoiceNo         string
	Date              string // DD/MM/YYYY
	FabricType        string
	Weight            string
}

// FormattedReceiptID composes the printed label: short name, invoice and
// the receipt year.
func FormattedReceiptID(shortName, invoiceNo, date string) string {
	year := date
	if len(date) >= 4 {
		year = date[len(date)-4:]
	}
	return fmt.Sprintf("%s-%s-%s", strings.ToUpper(shortName), invoiceNo, year)
}

// ReceiptCardPNG draws the printable intake card with the barcode across
// the middle.
func ReceiptCardPNG(card ReceiptCard) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, cardWidth, cardHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	// Border.
	black := color.RGBA{A: 255}
	for x := 0; x < cardWidth; x++ {
		img.Set(x, 0, black)
		img.Set(x, cardHeight-1, black)
	}
	for y := 0; y < cardHeight; y++ {
		img.Set(0, y, black)
		img.Set(cardWidth-1, y, black)
	}

	label := FormattedReceiptID(card.SupplierShortName, card.InvoiceNo, card.Date)
	drawText(img, 20, 30, label)
	drawText(img, 20, 50, "Date: "+card.Date)
	drawText(img, 20, 70, "Fabric: "+card.FabricType)
	drawText(img, 20, 90, "Weight: "+card.Weight+" kg")

	drawBarcode(img, card.UniqueNumber, 120)
	drawText(img, 20, 215, card.UniqueNumber)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode receipt card: %w", err)
	}
	return buf.Bytes(), nil
}

func drawText(img *image.RGBA, x, y int, s string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// drawBarcode paints the stripe pattern, horizontally centered, scaled 2x
// so the card stays readable when printed.
func drawBarcode(img *image.RGBA, number string, top int) {
	const barHeight = 70
	bars, total := barcodeBars(number)
	offset := (cardWidth - int(total*2)) / 2
	if offset < 0 {
		offset = 0
	}
	black := color.RGBA{A: 255}
	for _, bar := range bars {
		x0 := offset + int(bar[0]*2)
		x1 := offset + int((bar[0]+bar[1])*2)
		for x := x0; x < x1 && x < cardWidth; x++ {
			for y := top; y < top+barHeight; y++ {
				img.Set(x, y, black)
			}
		}
	}
}
