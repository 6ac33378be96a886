package deck

import (
	"deckgen/pptx"
)

// Slides built from the marsiya template get an attribution footer and a
// small red dot marker in the bottom-right corner.
const (
	footerTemplate = "marsiya"
	footerText     = "Marshia Translations | ISIJ of Toronto"
)

func addFooterAndWatermark(prs *pptx.Presentation, s *pptx.Slide) {
	cx, cy := prs.SlideSize()
	bold := true

	footer := s.AddTextBox(0, cy-pptx.Inches(0.6), cx, pptx.Inches(0.5))
	if footer == nil {
		return
	}
	tf := footer.TextFrame()
	tf.Clear()
	tf.ZeroMargins()
	p := tf.Paragraphs()[0]
	p.ResetFormat()
	p.SetAlignment(pptx.AlignCenter)
	p.AddRun(footerText).ApplyFont(pptx.Font{
		Name:  "Calibri",
		Size:  1400,
		Bold:  &bold,
		Color: "FFFFFF",
	})

	dot := pptx.Inches(0.25)
	inset := pptx.Inches(0.15)
	mark := s.AddTextBox(cx-dot-inset, cy-dot-inset, dot, dot)
	if mark == nil {
		return
	}
	tf = mark.TextFrame()
	tf.Clear()
	tf.ZeroMargins()
	p = tf.Paragraphs()[0]
	p.ResetFormat()
	p.SetAlignment(pptx.AlignRight)
	p.AddRun(".").ApplyFont(pptx.Font{
		Size:  2800,
		Bold:  &bold,
		Color: "FF0000",
	})
}
