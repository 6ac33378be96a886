package deck

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"deckgen/config"
	"deckgen/pptx"
	"deckgen/state"
)

// Request describes one generation: a template file and the two text blocks
// whose lines pair up into slides.
type Request struct {
	TemplatePath string
	TopText      string
	BottomText   string
}

// Generate builds a deck from the request and returns the path of the
// produced file. The caller owns the file and removes it when done.
func Generate(ctx context.Context, req Request) (string, error) {

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("deck")
	cfg := &env.Cfg.Deck

	start := time.Now()

	prs, err := pptx.Open(req.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("unable to open template: %w", err)
	}

	// non-fatal, a partially normalized template still generates
	if err := normalizeTemplate(prs); err != nil {
		log.Warn("Template normalization was incomplete", zap.Error(err))
	}

	base := templateBase(req.TemplatePath)
	hints := cfg.HintsFor(base)
	topHint := hintFont(hints.Top)
	bottomHint := hintFont(hints.Bottom)

	slides, err := prs.Slides()
	if err != nil {
		return "", fmt.Errorf("unable to read template slides: %w", err)
	}
	var proto *pptx.Slide
	if len(slides) > 0 {
		proto = slides[0]
	}
	usePlaceholders := proto != nil && len(proto.TextShapes()) >= 2

	pairs := SplitPairs(req.TopText, req.BottomText)
	for _, pair := range pairs {
		slide, err := addSlide(prs, proto)
		if err != nil {
			return "", err
		}

		// the whole bottom phrase reflows, embedded newlines included
		reflowed := ReflowWords(joinPhrase(pair.Bottom), cfg.WordsPerLine)

		wrote := false
		if usePlaceholders {
			if shapes := slide.TextShapes(); len(shapes) >= 2 {
				setFrameTextPreserved(shapes[0].TextFrame(), pair.Top, topHint, pptx.AlignCenter, false)
				setFrameTextPreserved(shapes[len(shapes)-1].TextFrame(), reflowed, bottomHint, pptx.AlignLeft, true)
				wrote = true
			}
		}
		if !wrote {
			// no usable placeholders, position text boxes ourselves
			cx, cy := prs.SlideSize()
			left := pptx.Inches(0.7)
			width := cx - pptx.Inches(1.4)

			topBox := slide.AddTextBox(left, pptx.Inches(0.6), width, pptx.Inches(2.5))
			if topBox != nil {
				writeFrame(topBox.TextFrame(), pair.Top, nil, topHint, pptx.AlignCenter, false)
			}
			bottomBox := slide.AddTextBox(left, cy-pptx.Inches(2.8), width, pptx.Inches(2.5))
			if bottomBox != nil {
				writeFrame(bottomBox.TextFrame(), reflowed, nil, bottomHint, pptx.AlignLeft, true)
			}
		}

		if base == footerTemplate {
			addFooterAndWatermark(prs, slide)
		}
	}

	// the prototype slide does not belong in the export
	if proto != nil {
		if err := prs.RemoveSlide(proto); err != nil {
			log.Warn("Unable to remove template slide", zap.Error(err))
		}
	}

	out := filepath.Join(outDir(cfg), "export_"+hexID()+".pptx")
	if err := saveDeck(prs, out, cfg.FixZip); err != nil {
		return "", err
	}

	log.Debug("Deck generated",
		zap.String("template", base),
		zap.Int("slides", len(pairs)),
		zap.String("file", out),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}

// normalizeTemplate resets placeholder formatting on the master, layouts and
// the prototype slide so template-level indents and bullets do not leak into
// generated text.
func normalizeTemplate(prs *pptx.Presentation) error {
	parts := append(prs.MasterParts(), prs.LayoutParts()...)
	if slides, err := prs.Slides(); err == nil && len(slides) > 0 {
		parts = append(parts, slides[0].PartName())
	}

	var errs error
	for _, part := range parts {
		frames, err := prs.PartTextFrames(part)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("part %q: %w", part, err))
			continue
		}
		for _, tf := range frames {
			tf.ZeroMargins()
			for _, p := range tf.Paragraphs() {
				p.ResetFormat()
				for _, r := range p.Runs() {
					r.SetText(SanitizeLine(r.Text()))
				}
			}
		}
	}
	return errs
}

func addSlide(prs *pptx.Presentation, proto *pptx.Slide) (*pptx.Slide, error) {
	if proto != nil {
		return prs.CloneSlide(proto)
	}
	layout, err := prs.FirstLayoutPart()
	if err != nil {
		return nil, fmt.Errorf("template has no slides to clone: %w", err)
	}
	return prs.NewSlideFromLayout(layout)
}

func saveDeck(prs *pptx.Presentation, out string, fixZip bool) error {
	if !fixZip {
		return prs.Save(out)
	}
	raw := out + ".raw"
	if err := prs.Save(raw); err != nil {
		return err
	}
	defer os.Remove(raw)
	return pptx.RewriteWithoutDataDescriptors(raw, out)
}

func outDir(cfg *config.DeckConfig) string {
	if cfg.WorkDir != "" {
		return cfg.WorkDir
	}
	return os.TempDir()
}

func templateBase(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

func hexID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
