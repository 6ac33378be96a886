package pptx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Align is a paragraph alignment value as it appears in the algn attribute.
type Align string

const (
	AlignLeft   Align = "l"
	AlignCenter Align = "ctr"
	AlignRight  Align = "r"
)

// Font is a set of run-level character properties. Zero fields mean "not
// set" and are never written, so a Font can describe a partial override.
type Font struct {
	Name   string // typeface
	Size   int    // hundredths of a point
	Bold   *bool
	Italic *bool
	Color  string // RRGGBB
}

// TextFrame wraps a txBody element.
type TextFrame struct {
	el *etree.Element
}

// Clear drops every paragraph leaving a single empty one, the same shape a
// freshly inserted text box has.
func (tf *TextFrame) Clear() {
	for _, p := range tf.el.SelectElements("p") {
		tf.el.RemoveChild(p)
	}
	tf.el.CreateElement("a:p")
}

// ZeroMargins removes the text body insets so text starts at the shape edge.
func (tf *TextFrame) ZeroMargins() {
	bodyPr := tf.el.SelectElement("bodyPr")
	if bodyPr == nil {
		bodyPr = etree.NewElement("a:bodyPr")
		tf.el.InsertChildAt(0, bodyPr)
	}
	for _, ins := range []string{"lIns", "tIns", "rIns", "bIns"} {
		bodyPr.CreateAttr(ins, "0")
	}
}

// Paragraphs returns the frame's paragraphs in document order.
func (tf *TextFrame) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, p := range tf.el.SelectElements("p") {
		out = append(out, &Paragraph{el: p})
	}
	return out
}

// AddParagraph appends a new empty paragraph.
func (tf *TextFrame) AddParagraph() *Paragraph {
	return &Paragraph{el: tf.el.CreateElement("a:p")}
}

// Paragraph wraps an a:p element.
type Paragraph struct {
	el *etree.Element
}

// SetAlignment sets horizontal alignment.
func (p *Paragraph) SetAlignment(a Align) {
	p.ensurePPr().CreateAttr("algn", string(a))
}

// ResetFormat zeroes indentation and inter-paragraph spacing and disables
// bullets. Cloned template slides often carry list styling that would
// otherwise leak into generated text.
func (p *Paragraph) ResetFormat() {
	pPr := p.ensurePPr()
	pPr.CreateAttr("marL", "0")
	pPr.CreateAttr("indent", "0")
	pPr.CreateAttr("lvl", "0")

	for _, tag := range []string{"spcBef", "spcAft"} {
		spc := pPr.SelectElement(tag)
		if spc == nil {
			spc = pPr.CreateElement("a:" + tag)
		} else {
			for _, ch := range spc.ChildElements() {
				spc.RemoveChild(ch)
			}
		}
		spc.CreateElement("a:spcPts").CreateAttr("val", "0")
	}
	if pPr.SelectElement("buNone") == nil {
		pPr.CreateElement("a:buNone")
	}
}

// Runs returns the paragraph's text runs.
func (p *Paragraph) Runs() []*Run {
	var out []*Run
	for _, r := range p.el.SelectElements("r") {
		out = append(out, &Run{el: r})
	}
	return out
}

// AddRun appends a run with the given text.
func (p *Paragraph) AddRun(text string) *Run {
	r := p.el.CreateElement("a:r")
	r.CreateElement("a:rPr")
	r.CreateElement("a:t").SetText(text)
	return &Run{el: r}
}

// AddBreak appends a soft line break.
func (p *Paragraph) AddBreak() {
	p.el.CreateElement("a:br")
}

// ensurePPr returns paragraph properties, creating them as the first child
// when absent.
func (p *Paragraph) ensurePPr() *etree.Element {
	pPr := p.el.SelectElement("pPr")
	if pPr == nil {
		pPr = etree.NewElement("a:pPr")
		p.el.InsertChildAt(0, pPr)
	}
	return pPr
}

// Run wraps an a:r element.
type Run struct {
	el *etree.Element
}

// Text returns the run's text.
func (r *Run) Text() string {
	if t := r.el.SelectElement("t"); t != nil {
		return t.Text()
	}
	return ""
}

// SetText replaces the run's text.
func (r *Run) SetText(text string) {
	t := r.el.SelectElement("t")
	if t == nil {
		t = r.el.CreateElement("a:t")
	}
	t.SetText(text)
}

// Font reports character properties the run carries explicitly. Properties
// it inherits from the theme come back as zero values.
func (r *Run) Font() Font {
	var f Font
	rPr := r.el.SelectElement("rPr")
	if rPr == nil {
		return f
	}
	if sz := rPr.SelectAttrValue("sz", ""); sz != "" {
		f.Size, _ = strconv.Atoi(sz)
	}
	if b := rPr.SelectAttr("b"); b != nil {
		v := b.Value == "1" || b.Value == "true"
		f.Bold = &v
	}
	if i := rPr.SelectAttr("i"); i != nil {
		v := i.Value == "1" || i.Value == "true"
		f.Italic = &v
	}
	if fill := rPr.SelectElement("solidFill"); fill != nil {
		if clr := fill.SelectElement("srgbClr"); clr != nil {
			f.Color = strings.ToUpper(clr.SelectAttrValue("val", ""))
		}
	}
	if latin := rPr.SelectElement("latin"); latin != nil {
		f.Name = latin.SelectAttrValue("typeface", "")
	}
	return f
}

// ApplyFont writes the set fields of f into the run's properties. Unset
// fields leave whatever the run already has.
func (r *Run) ApplyFont(f Font) {
	rPr := r.ensureRPr()
	if f.Size > 0 {
		rPr.CreateAttr("sz", strconv.Itoa(f.Size))
	}
	if f.Bold != nil {
		rPr.CreateAttr("b", boolAttr(*f.Bold))
	}
	if f.Italic != nil {
		rPr.CreateAttr("i", boolAttr(*f.Italic))
	}
	if f.Color != "" {
		fill := rPr.SelectElement("solidFill")
		if fill == nil {
			fill = etree.NewElement("a:solidFill")
			// fills precede font declarations in run properties
			if latin := rPr.SelectElement("latin"); latin != nil {
				rPr.InsertChildAt(latin.Index(), fill)
			} else {
				rPr.AddChild(fill)
			}
		}
		for _, ch := range fill.ChildElements() {
			fill.RemoveChild(ch)
		}
		fill.CreateElement("a:srgbClr").CreateAttr("val", strings.ToUpper(f.Color))
	}
	if f.Name != "" {
		latin := rPr.SelectElement("latin")
		if latin == nil {
			latin = rPr.CreateElement("a:latin")
		}
		latin.CreateAttr("typeface", f.Name)
	}
}

// ensureRPr returns run properties, creating them before the text node when
// absent.
func (r *Run) ensureRPr() *etree.Element {
	rPr := r.el.SelectElement("rPr")
	if rPr == nil {
		rPr = etree.NewElement("a:rPr")
		r.el.InsertChildAt(0, rPr)
	}
	return rPr
}

func boolAttr(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
