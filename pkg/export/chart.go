package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/scanview/pkg/model"
	"github.com/vanderheijden86/scanview/pkg/tree"
)

// ChartOptions configures a score chart.
type ChartOptions struct {
	Path    string // output file; extension picks the format when Format is empty
	Format  string // "svg" or "png"
	Catalog *model.Catalog
	// CategoryPath selects the node whose score is charted; empty means the
	// record's top-level score.
	CategoryPath string
	Title        string
}

type bar struct {
	label string
	score float64
	found bool
}

type chartLayout struct {
	Title  string
	Bars   []bar
	Width  int
	Height int
	labelW int
	barMax int
}

const (
	chartWidth  = 860
	chartTop    = 56
	rowHeight   = 24
	barHeight   = 16
	chartMargin = 16
	valueW      = 56
	maxLabel    = 28
)

var (
	chartBG     = color.RGBA{0xff, 0xff, 0xff, 0xff}
	chartText   = color.RGBA{0x24, 0x29, 0x2f, 0xff}
	chartMuted  = color.RGBA{0x8c, 0x95, 0x9f, 0xff}
	chartLow    = color.RGBA{0xd7, 0x3a, 0x49, 0xff}
	chartHigh   = color.RGBA{0x2d, 0xa4, 0x4e, 0xff}
	chartMissed = color.RGBA{0xe1, 0xe4, 0xe8, 0xff}
)

// SaveChart renders a horizontal score bar per model, best first.
func SaveChart(opts ChartOptions) error {
	format := strings.ToLower(opts.Format)
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		default:
			format = "svg"
		}
	}
	if opts.Path == "" {
		opts.Path = "scores." + format
	}

	layout := buildChartLayout(opts)
	switch format {
	case "svg":
		f, err := os.Create(opts.Path)
		if err != nil {
			return fmt.Errorf("create %s: %w", opts.Path, err)
		}
		if err := renderChartSVG(f, layout); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	case "png":
		return renderChartPNG(layout).SavePNG(opts.Path)
	}
	return fmt.Errorf("unsupported chart format %q", format)
}

func buildChartLayout(opts ChartOptions) chartLayout {
	var bars []bar
	for _, name := range opts.Catalog.Names() {
		rec, _ := opts.Catalog.Record(name)
		b := bar{label: name}
		if opts.CategoryPath == "" {
			b.score, b.found = tree.ScoreOf(rec), true
		} else if v, ok := model.Resolve(rec, opts.CategoryPath); ok {
			b.score, b.found = tree.ScoreOf(v), true
		}
		bars = append(bars, b)
	}
	sort.SliceStable(bars, func(i, j int) bool {
		if bars[i].found != bars[j].found {
			return bars[i].found
		}
		return bars[i].score > bars[j].score
	})

	title := opts.Title
	if title == "" {
		title = "Scores"
		if opts.CategoryPath != "" {
			title = "Scores: " + opts.CategoryPath
		}
	}

	labelW := 7*maxLabel + chartMargin
	return chartLayout{
		Title:  title,
		Bars:   bars,
		Width:  chartWidth,
		Height: chartTop + rowHeight*max(len(bars), 1) + chartMargin,
		labelW: labelW,
		barMax: chartWidth - labelW - valueW - 2*chartMargin,
	}
}

// maxScore normalises bar lengths; scores are usually in [0,1] but need
// not be.
func (l chartLayout) maxScore() float64 {
	m := 1.0
	for _, b := range l.Bars {
		if b.found && b.score > m {
			m = b.score
		}
	}
	return m
}

func (l chartLayout) barWidth(b bar) int {
	if !b.found || b.score <= 0 {
		return 0
	}
	return int(float64(l.barMax) * b.score / l.maxScore())
}

func barColor(b bar, maxScore float64) color.RGBA {
	if !b.found {
		return chartMissed
	}
	t := b.score / maxScore
	t = min(max(t, 0), 1)
	lerp := func(a, b uint8) uint8 { return uint8(float64(a) + (float64(b)-float64(a))*t) }
	return color.RGBA{lerp(chartLow.R, chartHigh.R), lerp(chartLow.G, chartHigh.G), lerp(chartLow.B, chartHigh.B), 0xff}
}

func valueText(b bar) string {
	if !b.found {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", b.score)
}

func renderChartPNG(l chartLayout) *gg.Context {
	dc := gg.NewContext(l.Width, l.Height)
	dc.SetColor(chartBG)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(chartText)
	dc.DrawString(l.Title, chartMargin, 28)
	dc.SetColor(chartMuted)
	dc.DrawString(fmt.Sprintf("%d models", len(l.Bars)), chartMargin, 44)

	maxScore := l.maxScore()
	for i, b := range l.Bars {
		y := float64(chartTop + i*rowHeight)
		dc.SetColor(chartText)
		dc.DrawString(truncate(b.label, maxLabel), chartMargin, y+12)

		dc.SetColor(barColor(b, maxScore))
		w := l.barWidth(b)
		if w == 0 {
			w = 2
		}
		dc.DrawRectangle(float64(l.labelW), y, float64(w), barHeight)
		dc.Fill()

		dc.SetColor(chartMuted)
		dc.DrawString(valueText(b), float64(l.labelW+l.barWidth(b)+6), y+12)
	}
	return dc
}

func renderChartSVG(w io.Writer, l chartLayout) error {
	canvas := svg.New(w)
	canvas.Start(l.Width, l.Height)
	canvas.Rect(0, 0, l.Width, l.Height, "fill:"+css(chartBG))
	canvas.Text(chartMargin, 28, l.Title, "font-family:monospace;font-size:16px;font-weight:bold;fill:"+css(chartText))
	canvas.Text(chartMargin, 44, fmt.Sprintf("%d models", len(l.Bars)), "font-family:monospace;font-size:11px;fill:"+css(chartMuted))

	maxScore := l.maxScore()
	for i, b := range l.Bars {
		y := chartTop + i*rowHeight
		canvas.Text(chartMargin, y+12, truncate(b.label, maxLabel), "font-family:monospace;font-size:12px;fill:"+css(chartText))
		bw := l.barWidth(b)
		if bw == 0 {
			bw = 2
		}
		canvas.Rect(l.labelW, y, bw, barHeight, "fill:"+css(barColor(b, maxScore)))
		canvas.Text(l.labelW+l.barWidth(b)+6, y+12, valueText(b), "font-family:monospace;font-size:11px;fill:"+css(chartMuted))
	}
	canvas.End()
	return nil
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
