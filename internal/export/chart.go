package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/fogleman/gg"
	"github.com/jmehdipour/churnctl/internal/model"
)

// ErrNoMonths is returned when there is nothing to plot.
var ErrNoMonths = errors.New("no months to chart")

// ChartOptions sizes the trend chart in pixels.
type ChartOptions struct {
	Width  int
	Height int
}

func (o ChartOptions) withDefaults() ChartOptions {
	if o.Width <= 0 {
		o.Width = 1000
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	return o
}

type marker int

const (
	markerCircle marker = iota
	markerSquare
	markerCross
)

type series struct {
	label  string
	color  string
	dash   []float64
	marker marker
	values []int
}

const (
	marginLeft   = 70.0
	marginRight  = 30.0
	marginTop    = 60.0
	marginBottom = 90.0
	yTicks       = 5
)

// RenderChart draws active, created and canceled customers per month as a PNG.
func RenderChart(w io.Writer, rows []model.MonthlyRow, opts ChartOptions) error {
	if len(rows) == 0 {
		return ErrNoMonths
	}
	opts = opts.withDefaults()
	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetHexColor("#ffffff")
	dc.Clear()

	width, height := float64(opts.Width), float64(opts.Height)
	plotW := width - marginLeft - marginRight
	plotH := height - marginTop - marginBottom

	all := []series{
		{label: "Active Customers", color: "#1f77b4", marker: markerCircle},
		{label: "New Customers", color: "#ff7f0e", dash: []float64{8, 5}, marker: markerSquare},
		{label: "Canceled Customers", color: "#2ca02c", dash: []float64{2, 4}, marker: markerCross},
	}
	for _, r := range rows {
		all[0].values = append(all[0].values, r.Active)
		all[1].values = append(all[1].values, r.Created)
		all[2].values = append(all[2].values, r.Canceled)
	}

	maxV := 0
	for _, s := range all {
		for _, v := range s.values {
			if v > maxV {
				maxV = v
			}
		}
	}
	yMax := niceCeil(maxV)

	xAt := func(i int) float64 {
		if len(rows) <= 1 {
			return marginLeft + plotW/2
		}
		return marginLeft + float64(i)*plotW/float64(len(rows)-1)
	}
	yAt := func(v int) float64 {
		return marginTop + plotH - float64(v)/float64(yMax)*plotH
	}

	// title
	dc.SetHexColor("#000000")
	dc.DrawStringAnchored("Monthly Customer Trends", width/2, marginTop/2, 0.5, 0.5)

	// grid and y axis
	dc.SetLineWidth(1)
	for i := 0; i <= yTicks; i++ {
		v := yMax * i / yTicks
		y := yAt(v)
		dc.SetHexColor("#e5e5e5")
		dc.DrawLine(marginLeft, y, marginLeft+plotW, y)
		dc.Stroke()
		dc.SetHexColor("#333333")
		dc.DrawStringAnchored(strconv.Itoa(v), marginLeft-8, y, 1, 0.5)
	}
	dc.SetHexColor("#333333")
	dc.DrawLine(marginLeft, marginTop, marginLeft, marginTop+plotH)
	dc.DrawLine(marginLeft, marginTop+plotH, marginLeft+plotW, marginTop+plotH)
	dc.Stroke()

	dc.Push()
	dc.RotateAbout(gg.Radians(-90), 18, marginTop+plotH/2)
	dc.DrawStringAnchored("Number of Customers", 18, marginTop+plotH/2, 0.5, 0.5)
	dc.Pop()

	// month labels, thinned so they do not overlap
	step := int(math.Ceil(float64(len(rows)) / 36))
	if step < 1 {
		step = 1
	}
	for i, r := range rows {
		if i%step != 0 && i != len(rows)-1 {
			continue
		}
		x, y := xAt(i), marginTop+plotH+10
		dc.Push()
		dc.RotateAbout(gg.Radians(-45), x, y)
		dc.DrawStringAnchored(r.Month.String(), x, y, 1, 0.5)
		dc.Pop()
	}

	for _, s := range all {
		drawSeries(dc, s, xAt, yAt)
	}
	drawLegend(dc, all, marginLeft+plotW)

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode chart png: %w", err)
	}
	return nil
}

func drawSeries(dc *gg.Context, s series, xAt func(int) float64, yAt func(int) float64) {
	dc.SetHexColor(s.color)
	dc.SetLineWidth(2)
	dc.SetDash(s.dash...)
	for i, v := range s.values {
		if i == 0 {
			dc.MoveTo(xAt(i), yAt(v))
			continue
		}
		dc.LineTo(xAt(i), yAt(v))
	}
	dc.Stroke()
	dc.SetDash()

	for i, v := range s.values {
		drawMarker(dc, s.marker, xAt(i), yAt(v))
	}
}

func drawMarker(dc *gg.Context, m marker, x, y float64) {
	const r = 4.0
	switch m {
	case markerSquare:
		dc.DrawRectangle(x-r, y-r, 2*r, 2*r)
		dc.Fill()
	case markerCross:
		dc.SetLineWidth(2)
		dc.DrawLine(x-r, y-r, x+r, y+r)
		dc.DrawLine(x-r, y+r, x+r, y-r)
		dc.Stroke()
	default:
		dc.DrawCircle(x, y, r)
		dc.Fill()
	}
}

func drawLegend(dc *gg.Context, all []series, right float64) {
	const (
		lineLen = 28.0
		rowH    = 18.0
		pad     = 8.0
	)
	textW := 0.0
	for _, s := range all {
		if w, _ := dc.MeasureString(s.label); w > textW {
			textW = w
		}
	}
	boxW := pad*3 + lineLen + textW
	boxH := pad*2 + rowH*float64(len(all))
	x0, y0 := right-boxW-8, marginTop+8

	dc.SetRGBA(1, 1, 1, 0.9)
	dc.DrawRectangle(x0, y0, boxW, boxH)
	dc.FillPreserve()
	dc.SetHexColor("#cccccc")
	dc.SetLineWidth(1)
	dc.Stroke()

	for i, s := range all {
		y := y0 + pad + rowH*float64(i) + rowH/2
		dc.SetHexColor(s.color)
		dc.SetLineWidth(2)
		dc.SetDash(s.dash...)
		dc.DrawLine(x0+pad, y, x0+pad+lineLen, y)
		dc.Stroke()
		dc.SetDash()
		drawMarker(dc, s.marker, x0+pad+lineLen/2, y)
		dc.SetHexColor("#000000")
		dc.DrawStringAnchored(s.label, x0+pad*2+lineLen, y, 0, 0.5)
	}
}

// niceCeil rounds v up to 1, 2 or 5 times a power of ten, and to a multiple
// of yTicks so tick labels stay integral.
func niceCeil(v int) int {
	if v <= yTicks {
		return yTicks
	}
	mag := math.Pow(10, math.Floor(math.Log10(float64(v))))
	for _, f := range []float64{1, 2, 5, 10} {
		if c := int(f * mag); c >= v && c%yTicks == 0 {
			return c
		}
	}
	n := int(10 * mag)
	return (n + yTicks - 1) / yTicks * yTicks
}
