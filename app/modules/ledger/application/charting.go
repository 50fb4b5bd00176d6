package ledgerservice

import (
	"bytes"
	"time"

	ledgerdb "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/infrastructure/repositories"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colors of a balance chart.
type ChartPalette struct {
	Background drawing.Color
	Line       drawing.Color
	Dot        drawing.Color
	Zero       drawing.Color
	Text       drawing.Color
}

// DefaultPalette is a felt-green table theme.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorFromHex("0f2e1f"),
	Line:       drawing.ColorFromHex("4cc38a"),
	Dot:        drawing.ColorFromHex("e8c547"),
	Zero:       drawing.ColorFromHex("8a9a91"),
	Text:       drawing.ColorFromHex("f2f2f2"),
}

// GenerateBalanceChart produces a PNG line chart of a player's running
// balance. The line starts at zero the day before the first game.
func GenerateBalanceChart(playerName string, entries []ledgerdb.Entry, palette ChartPalette) ([]byte, error) {
	if len(entries) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	sorted := append([]ledgerdb.Entry(nil), entries...)
	SortByDate(sorted)

	xValues := make([]time.Time, 0, len(sorted)+1)
	yValues := make([]float64, 0, len(sorted)+1)
	xValues = append(xValues, sorted[0].GameDate.Time().AddDate(0, 0, -1))
	yValues = append(yValues, 0)

	lo, hi := 0.0, 0.0
	for _, e := range sorted {
		v := e.RunningBalance.InexactFloat64()
		xValues = append(xValues, e.GameDate.Time())
		yValues = append(yValues, v)
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.1

	balanceSeries := chart.TimeSeries{
		Name:    playerName,
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: palette.Line,
			StrokeWidth: 2,
			DotWidth:    4,
			DotColor:    palette.Dot,
		},
	}
	zeroSeries := chart.TimeSeries{
		Name:    "Even",
		XValues: []time.Time{xValues[0], xValues[len(xValues)-1]},
		YValues: []float64{0, 0},
		Style: chart.Style{
			StrokeColor:     palette.Zero,
			StrokeWidth:     1,
			StrokeDashArray: []float64{4, 4},
		},
	}

	graph := chart.Chart{
		Title:  playerName + " running balance",
		Width:  800,
		Height: 400,
		TitleStyle: chart.Style{
			FontColor: palette.Text,
		},
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:           "Game date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
			Style: chart.Style{
				FontColor: palette.Text,
			},
		},
		YAxis: chart.YAxis{
			Name: "Balance ($)",
			Style: chart.Style{
				FontColor: palette.Text,
			},
			Range: &chart.ContinuousRange{
				Min: lo - pad,
				Max: hi + pad,
			},
		},
		Series: []chart.Series{zeroSeries, balanceSeries},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// renderNoDataPlaceholder draws a message on a blank canvas. chart.Chart
// refuses to render without a series, so it goes through the renderer.
func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		placeholderWidth  = 400
		placeholderHeight = 200
		msg               = "No games recorded yet"
	)

	r, err := chart.PNG(placeholderWidth, placeholderHeight)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}

	r.SetFillColor(palette.Background)
	r.MoveTo(0, 0)
	r.LineTo(placeholderWidth, 0)
	r.LineTo(placeholderWidth, placeholderHeight)
	r.LineTo(0, placeholderHeight)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(palette.Text)
	r.SetFontSize(14)
	tb := r.MeasureText(msg)
	r.Text(msg, (placeholderWidth-tb.Width())/2, (placeholderHeight+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
