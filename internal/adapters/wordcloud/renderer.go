// Package wordcloud renders word frequency images.
package wordcloud

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/0xcro3dile/chatstats-go/internal/domain/ports"
)

const (
	shrinkFactor = 0.9
	padding      = 2.0
	spiralPitch  = 10.0 // radius growth per full turn, px
	spiralStep   = 6.0  // arc length between probes, px
)

var palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Options controls the canvas and font sizing.
type Options struct {
	Width       int
	Height      int
	Background  string
	MaxFontSize float64
	MinFontSize float64
	MaxWords    int
	FileName    string
}

// Renderer implements ports.CloudRenderer with a spiral layout.
// It is not safe for concurrent use.
type Renderer struct {
	font  *truetype.Font
	opts  Options
	faces map[float64]font.Face
}

// NewRenderer loads the TrueType font at fontPath.
func NewRenderer(fontPath string, opts Options) (*Renderer, error) {
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading font %s", fontPath)
	}
	return NewRendererFromFont(data, opts)
}

// NewRendererFromFont parses TrueType font bytes.
func NewRendererFromFont(data []byte, opts Options) (*Renderer, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "parsing font")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.Newf("invalid canvas size %dx%d", opts.Width, opts.Height)
	}
	if opts.MinFontSize <= 0 {
		opts.MinFontSize = 4
	}
	if opts.MaxFontSize < opts.MinFontSize {
		opts.MaxFontSize = opts.MinFontSize
	}
	if opts.Background == "" {
		opts.Background = "#ffffff"
	}
	if opts.FileName == "" {
		opts.FileName = "wordcloud.png"
	}
	return &Renderer{font: f, opts: opts, faces: make(map[float64]font.Face)}, nil
}

type wordCount struct {
	word  string
	count int
}

// placement is a word positioned by its center.
type placement struct {
	word string
	size float64
	x, y float64
	w, h float64
}

func (p placement) overlaps(o placement) bool {
	return math.Abs(p.x-o.x)*2 < p.w+o.w+2*padding &&
		math.Abs(p.y-o.y)*2 < p.h+o.h+2*padding
}

// Render lays out the words of text and writes a PNG into outputDir.
func (r *Renderer) Render(ctx context.Context, text, outputDir string) (string, error) {
	words := countWords(text, r.opts.MaxWords)
	if len(words) == 0 {
		return "", ports.ErrNothingToRender
	}

	placed := r.layout(words)

	dc := gg.NewContext(r.opts.Width, r.opts.Height)
	dc.SetHexColor(r.opts.Background)
	dc.Clear()
	for i, p := range placed {
		dc.SetFontFace(r.face(p.size))
		dc.SetHexColor(palette[i%len(palette)])
		dc.DrawStringAnchored(p.word, p.x, p.y, 0.5, 0.5)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating %s", outputDir)
	}
	path := filepath.Join(outputDir, r.opts.FileName)
	if err := dc.SavePNG(path); err != nil {
		return "", errors.Wrapf(err, "saving %s", path)
	}
	return path, nil
}

// countWords ranks whitespace-separated words by frequency, ties in
// first-seen order, keeping at most limit (all when limit <= 0).
func countWords(text string, limit int) []wordCount {
	index := make(map[string]int)
	var words []wordCount
	for _, w := range strings.Fields(text) {
		if i, ok := index[w]; ok {
			words[i].count++
			continue
		}
		index[w] = len(words)
		words = append(words, wordCount{word: w, count: 1})
	}

	sort.SliceStable(words, func(i, j int) bool {
		return words[i].count > words[j].count
	})
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return words
}

// layout places words largest first. Font size scales with frequency; a
// word that fits nowhere shrinks until it does or drops below the minimum.
func (r *Renderer) layout(words []wordCount) []placement {
	measure := gg.NewContext(1, 1)
	maxCount := float64(words[0].count)

	var placed []placement
	for _, wc := range words {
		size := math.Max(r.opts.MaxFontSize*float64(wc.count)/maxCount, r.opts.MinFontSize)
		for size >= r.opts.MinFontSize {
			measure.SetFontFace(r.face(size))
			w, h := measure.MeasureString(wc.word)
			p := placement{word: wc.word, size: size, w: w, h: h}
			if r.findSlot(&p, placed) {
				placed = append(placed, p)
				break
			}
			size *= shrinkFactor
		}
	}
	return placed
}

// findSlot walks an Archimedean spiral out from the canvas center and
// sets p's position to the first spot inside the canvas that overlaps nothing.
func (r *Renderer) findSlot(p *placement, placed []placement) bool {
	width, height := float64(r.opts.Width), float64(r.opts.Height)
	if p.w > width || p.h > height {
		return false
	}
	cx, cy := width/2, height/2
	aspect := width / height
	maxRadius := math.Hypot(width, height) / 2

	a := spiralPitch / (2 * math.Pi)
	for theta := 0.0; ; {
		radius := a * theta
		if radius > maxRadius {
			return false
		}
		p.x = cx + radius*math.Cos(theta)*aspect
		p.y = cy + radius*math.Sin(theta)
		if r.inside(*p) && !collides(*p, placed) {
			return true
		}
		theta += spiralStep / math.Max(radius, spiralStep)
	}
}

func (r *Renderer) inside(p placement) bool {
	return p.x-p.w/2 >= 0 && p.x+p.w/2 <= float64(r.opts.Width) &&
		p.y-p.h/2 >= 0 && p.y+p.h/2 <= float64(r.opts.Height)
}

func collides(p placement, placed []placement) bool {
	for _, o := range placed {
		if p.overlaps(o) {
			return true
		}
	}
	return false
}

func (r *Renderer) face(size float64) font.Face {
	size = math.Round(size)
	if f, ok := r.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(r.font, &truetype.Options{Size: size})
	r.faces[size] = f
	return f
}
