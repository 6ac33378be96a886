package pptx

import (
	"sort"
	"strconv"

	"github.com/beevik/etree"
)

// EMU is the OOXML drawing unit, 914400 per inch.
type EMU int64

const EMUPerInch EMU = 914400

// Inches converts inches to EMU.
func Inches(v float64) EMU {
	return EMU(v * float64(EMUPerInch))
}

// Shape is a text-capable sp element on a slide.
type Shape struct {
	slide *Slide
	el    *etree.Element
}

// TextShapes returns the slide's shapes that carry a text frame, ordered top
// to bottom. A shape without its own position inherits one from the matching
// layout or master placeholder. Shapes whose position cannot be resolved at
// all keep their document order at the end, same as an unsortable list would.
func (s *Slide) TextShapes() []*Shape {
	spTree := s.spTree()
	if spTree == nil {
		return nil
	}

	type positioned struct {
		shape *Shape
		y     EMU
		known bool
		seq   int
	}

	var shapes []positioned
	allKnown := true
	for i, sp := range spTree.SelectElements("sp") {
		if sp.SelectElement("txBody") == nil {
			continue
		}
		sh := &Shape{slide: s, el: sp}
		y, known := sh.top()
		if !known {
			allKnown = false
		}
		shapes = append(shapes, positioned{shape: sh, y: y, known: known, seq: i})
	}

	if allKnown {
		sort.SliceStable(shapes, func(i, j int) bool {
			return shapes[i].y < shapes[j].y
		})
	}

	out := make([]*Shape, len(shapes))
	for i, p := range shapes {
		out[i] = p.shape
	}
	return out
}

// AddTextBox appends a plain rectangular text box to the slide and returns
// its shape.
func (s *Slide) AddTextBox(x, y, cx, cy EMU) *Shape {
	spTree := s.spTree()
	if spTree == nil {
		return nil
	}

	sp := spTree.CreateElement("p:sp")

	nv := sp.CreateElement("p:nvSpPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", strconv.Itoa(s.nextShapeID()))
	cNvPr.CreateAttr("name", "TextBox")
	nv.CreateElement("p:cNvSpPr").CreateAttr("txBox", "1")
	nv.CreateElement("p:nvPr")

	spPr := sp.CreateElement("p:spPr")
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", strconv.FormatInt(int64(x), 10))
	off.CreateAttr("y", strconv.FormatInt(int64(y), 10))
	ext := xfrm.CreateElement("a:ext")
	ext.CreateAttr("cx", strconv.FormatInt(int64(cx), 10))
	ext.CreateAttr("cy", strconv.FormatInt(int64(cy), 10))
	geom := spPr.CreateElement("a:prstGeom")
	geom.CreateAttr("prst", "rect")
	geom.CreateElement("a:avLst")

	txBody := sp.CreateElement("p:txBody")
	bodyPr := txBody.CreateElement("a:bodyPr")
	bodyPr.CreateAttr("wrap", "square")
	bodyPr.CreateAttr("rtlCol", "0")
	txBody.CreateElement("a:lstStyle")
	txBody.CreateElement("a:p")

	return &Shape{slide: s, el: sp}
}

// TextFrame returns the shape's text body, or nil for shapes without one.
func (sh *Shape) TextFrame() *TextFrame {
	txBody := sh.el.SelectElement("txBody")
	if txBody == nil {
		return nil
	}
	return &TextFrame{el: txBody}
}

// top resolves the shape's vertical offset in EMU, consulting the matching
// layout and master placeholders when the slide shape carries no transform
// of its own.
func (sh *Shape) top() (EMU, bool) {
	if y, found := shapeOffsetY(sh.el); found {
		return y, true
	}

	phType, phIdx, isPH := placeholderKey(sh.el)
	if !isPH {
		return 0, false
	}

	layout, err := sh.slide.LayoutPart()
	if err != nil {
		return 0, false
	}
	if y, found := sh.slide.p.placeholderOffsetY(layout, phType, phIdx); found {
		return y, true
	}
	master, err := sh.slide.MasterPart()
	if err != nil {
		return 0, false
	}
	return sh.slide.p.placeholderOffsetY(master, phType, phIdx)
}

// placeholderOffsetY finds a placeholder with the given key inside a layout
// or master part and returns its vertical offset.
func (p *Presentation) placeholderOffsetY(part, phType, phIdx string) (EMU, bool) {
	doc, err := p.doc(part)
	if err != nil {
		return 0, false
	}
	spTree := doc.Root().SelectElement("cSld")
	if spTree == nil {
		return 0, false
	}
	tree := spTree.SelectElement("spTree")
	if tree == nil {
		return 0, false
	}
	for _, sp := range tree.SelectElements("sp") {
		t, idx, isPH := placeholderKey(sp)
		if !isPH {
			continue
		}
		if phIdx != "" && idx == phIdx {
			return shapeOffsetY(sp)
		}
		if phIdx == "" && idx == "" && t == phType {
			return shapeOffsetY(sp)
		}
	}
	return 0, false
}

func (s *Slide) spTree() *etree.Element {
	cSld := s.doc.Root().SelectElement("cSld")
	if cSld == nil {
		return nil
	}
	return cSld.SelectElement("spTree")
}

// nextShapeID allocates an id above every cNvPr id already on the slide.
func (s *Slide) nextShapeID() int {
	max := 1
	for _, cNvPr := range s.doc.FindElements("//cNvPr") {
		if id, err := strconv.Atoi(cNvPr.SelectAttrValue("id", "0")); err == nil && id > max {
			max = id
		}
	}
	return max + 1
}

func shapeOffsetY(sp *etree.Element) (EMU, bool) {
	spPr := sp.SelectElement("spPr")
	if spPr == nil {
		return 0, false
	}
	xfrm := spPr.SelectElement("xfrm")
	if xfrm == nil {
		return 0, false
	}
	off := xfrm.SelectElement("off")
	if off == nil {
		return 0, false
	}
	y, err := strconv.ParseInt(off.SelectAttrValue("y", ""), 10, 64)
	if err != nil {
		return 0, false
	}
	return EMU(y), true
}

// placeholderKey extracts the ph type and index of a shape, reporting whether
// the shape is a placeholder at all.
func placeholderKey(sp *etree.Element) (phType, phIdx string, isPH bool) {
	nvSpPr := sp.SelectElement("nvSpPr")
	if nvSpPr == nil {
		return "", "", false
	}
	nvPr := nvSpPr.SelectElement("nvPr")
	if nvPr == nil {
		return "", "", false
	}
	ph := nvPr.SelectElement("ph")
	if ph == nil {
		return "", "", false
	}
	return ph.SelectAttrValue("type", "body"), ph.SelectAttrValue("idx", ""), true
}
