package deck

import (
	"deckgen/pptx"
)

// sampleFont captures explicit character properties from the frame's first
// run, the style a template author gave the placeholder.
func sampleFont(tf *pptx.TextFrame) *pptx.Font {
	paras := tf.Paragraphs()
	if len(paras) == 0 {
		return nil
	}
	runs := paras[0].Runs()
	if len(runs) == 0 {
		return nil
	}
	f := runs[0].Font()
	return &f
}

// writeFrame replaces the frame's content with the given text. With
// asParagraphs false every line goes into one paragraph separated by soft
// breaks, with true each line becomes its own paragraph, which renders
// reliably in Google Slides. Sample properties win over hint properties,
// both only fill what a run does not already carry.
func writeFrame(tf *pptx.TextFrame, text string, sample *pptx.Font, hint pptx.Font, align pptx.Align, asParagraphs bool) {
	tf.Clear()
	tf.ZeroMargins()

	lines := splitLines(text)
	if len(lines) == 0 {
		lines = []string{""}
	}
	for i := range lines {
		lines[i] = SanitizeLine(lines[i])
	}

	if asParagraphs {
		first := tf.Paragraphs()[0]
		for i, ln := range lines {
			p := first
			if i > 0 {
				p = tf.AddParagraph()
			}
			p.AddRun(ln)
		}
	} else {
		p := tf.Paragraphs()[0]
		p.ResetFormat()
		p.SetAlignment(align)
		for i, ln := range lines {
			if i > 0 {
				p.AddBreak()
			}
			p.AddRun(ln)
		}
	}

	for _, p := range tf.Paragraphs() {
		p.ResetFormat()
		p.SetAlignment(align)
		for _, r := range p.Runs() {
			if sample != nil {
				r.ApplyFont(*sample)
			}
			fillMissingFont(r, hint)
		}
	}
}

// setFrameTextPreserved samples the frame's template style before rewriting
// it so generated runs keep the placeholder's look.
func setFrameTextPreserved(tf *pptx.TextFrame, text string, hint pptx.Font, align pptx.Align, asParagraphs bool) {
	if tf == nil {
		return
	}
	writeFrame(tf, text, sampleFont(tf), hint, align, asParagraphs)
}
