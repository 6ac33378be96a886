package pptx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const (
	nsDrawingML     = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPresentation  = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsOfficeRels    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
)

// Slide is one slide part of a Presentation.
type Slide struct {
	p     *Presentation
	part  string
	doc   *etree.Document
	relID string
}

// PartName returns the slide's part name inside the archive.
func (s *Slide) PartName() string {
	return s.part
}

// Slides returns deck slides in presentation order.
func (p *Presentation) Slides() ([]*Slide, error) {
	pres, err := p.doc(presentationPart)
	if err != nil {
		return nil, err
	}
	rels, err := p.doc(relsPath(presentationPart))
	if err != nil {
		return nil, err
	}

	lst := pres.Root().SelectElement("sldIdLst")
	if lst == nil {
		return nil, nil
	}

	var slides []*Slide
	for _, sldID := range lst.SelectElements("sldId") {
		relID := sldID.SelectAttrValue("r:id", "")
		target := relTarget(rels, relID)
		if target == "" {
			return nil, fmt.Errorf("slide relationship %q not found", relID)
		}
		part := resolveTarget(presentationPart, target)
		doc, err := p.doc(part)
		if err != nil {
			return nil, err
		}
		slides = append(slides, &Slide{p: p, part: part, doc: doc, relID: relID})
	}
	return slides, nil
}

// CloneSlide adds a copy of src at the end of the deck. The copy shares the
// source's layout and keeps all its shapes, so a template's prototype slide
// carries formatting into every generated slide.
func (p *Presentation) CloneSlide(src *Slide) (*Slide, error) {
	part := p.freeSlidePartName()

	doc := src.doc.Copy()
	p.addPart(part, doc)

	if _, exists := p.parts[relsPath(src.part)]; exists {
		rels, err := p.doc(relsPath(src.part))
		if err != nil {
			return nil, err
		}
		p.addPart(relsPath(part), rels.Copy())
	}

	relID, err := p.registerSlide(part)
	if err != nil {
		return nil, err
	}
	return &Slide{p: p, part: part, doc: doc, relID: relID}, nil
}

// NewSlideFromLayout adds an empty slide bound to the given layout part.
// Used when a template deck comes without slides to clone.
func (p *Presentation) NewSlideFromLayout(layoutPart string) (*Slide, error) {
	if _, exists := p.parts[layoutPart]; !exists {
		return nil, fmt.Errorf("slide layout part %q not found", layoutPart)
	}

	part := p.freeSlidePartName()

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	sld := doc.CreateElement("p:sld")
	sld.CreateAttr("xmlns:a", nsDrawingML)
	sld.CreateAttr("xmlns:r", nsOfficeRels)
	sld.CreateAttr("xmlns:p", nsPresentation)
	cSld := sld.CreateElement("p:cSld")
	spTree := cSld.CreateElement("p:spTree")
	nv := spTree.CreateElement("p:nvGrpSpPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", "1")
	cNvPr.CreateAttr("name", "")
	nv.CreateElement("p:cNvGrpSpPr")
	nv.CreateElement("p:nvPr")
	grpSpPr := spTree.CreateElement("p:grpSpPr")
	xfrm := grpSpPr.CreateElement("a:xfrm")
	for _, tag := range []string{"a:off", "a:chOff"} {
		el := xfrm.CreateElement(tag)
		el.CreateAttr("x", "0")
		el.CreateAttr("y", "0")
	}
	for _, tag := range []string{"a:ext", "a:chExt"} {
		el := xfrm.CreateElement(tag)
		el.CreateAttr("cx", "0")
		el.CreateAttr("cy", "0")
	}
	sld.CreateElement("p:clrMapOvr").CreateElement("a:masterClrMapping")
	p.addPart(part, doc)

	rels := etree.NewDocument()
	rels.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := rels.CreateElement("Relationships")
	root.CreateAttr("xmlns", nsRelationships)
	rel := root.CreateElement("Relationship")
	rel.CreateAttr("Id", "rId1")
	rel.CreateAttr("Type", layoutRelType)
	rel.CreateAttr("Target", relativeTarget(part, layoutPart))
	p.addPart(relsPath(part), rels)

	relID, err := p.registerSlide(part)
	if err != nil {
		return nil, err
	}
	return &Slide{p: p, part: part, doc: doc, relID: relID}, nil
}

// RemoveSlide drops the slide from the deck and the archive.
func (p *Presentation) RemoveSlide(s *Slide) error {
	pres, err := p.doc(presentationPart)
	if err != nil {
		return err
	}
	rels, err := p.doc(relsPath(presentationPart))
	if err != nil {
		return err
	}

	lst := pres.Root().SelectElement("sldIdLst")
	if lst == nil {
		return fmt.Errorf("presentation has no slide list")
	}
	for _, sldID := range lst.SelectElements("sldId") {
		if sldID.SelectAttrValue("r:id", "") == s.relID {
			lst.RemoveChild(sldID)
			break
		}
	}
	for _, rel := range rels.Root().SelectElements("Relationship") {
		if rel.SelectAttrValue("Id", "") == s.relID {
			rels.Root().RemoveChild(rel)
			break
		}
	}

	ct, err := p.doc(contentTypesPart)
	if err != nil {
		return err
	}
	for _, ovr := range ct.Root().SelectElements("Override") {
		if ovr.SelectAttrValue("PartName", "") == "/"+s.part {
			ct.Root().RemoveChild(ovr)
			break
		}
	}

	p.dropPart(s.part)
	p.dropPart(relsPath(s.part))
	return nil
}

// LayoutPart returns the slide layout part the slide is bound to.
func (s *Slide) LayoutPart() (string, error) {
	return s.p.relatedPart(s.part, layoutRelType)
}

// MasterPart returns the slide master part behind the slide's layout.
func (s *Slide) MasterPart() (string, error) {
	layout, err := s.LayoutPart()
	if err != nil {
		return "", err
	}
	return s.p.relatedPart(layout, masterRelType)
}

// FirstLayoutPart returns some layout part of the deck's first master, for
// templates that ship without slides.
func (p *Presentation) FirstLayoutPart() (string, error) {
	rels, err := p.doc(relsPath(presentationPart))
	if err != nil {
		return "", err
	}
	var master string
	for _, rel := range rels.Root().SelectElements("Relationship") {
		if rel.SelectAttrValue("Type", "") == masterRelType {
			master = resolveTarget(presentationPart, rel.SelectAttrValue("Target", ""))
			break
		}
	}
	if master == "" {
		return "", fmt.Errorf("presentation has no slide master")
	}
	return p.relatedPart(master, layoutRelType)
}

// relatedPart resolves the first relationship of the given type from a part.
func (p *Presentation) relatedPart(part, relType string) (string, error) {
	rels, err := p.doc(relsPath(part))
	if err != nil {
		return "", err
	}
	for _, rel := range rels.Root().SelectElements("Relationship") {
		if rel.SelectAttrValue("Type", "") == relType {
			return resolveTarget(part, rel.SelectAttrValue("Target", "")), nil
		}
	}
	return "", fmt.Errorf("part %q has no relationship of type %q", part, relType)
}

// registerSlide wires a new slide part into content types, presentation
// relationships and the slide id list.
func (p *Presentation) registerSlide(part string) (string, error) {
	ct, err := p.doc(contentTypesPart)
	if err != nil {
		return "", err
	}
	ovr := ct.Root().CreateElement("Override")
	ovr.CreateAttr("PartName", "/"+part)
	ovr.CreateAttr("ContentType", slideContentType)

	rels, err := p.doc(relsPath(presentationPart))
	if err != nil {
		return "", err
	}
	relID := nextRelID(rels)
	rel := rels.Root().CreateElement("Relationship")
	rel.CreateAttr("Id", relID)
	rel.CreateAttr("Type", slideRelType)
	rel.CreateAttr("Target", relativeTarget(presentationPart, part))

	pres, err := p.doc(presentationPart)
	if err != nil {
		return "", err
	}
	lst := pres.Root().SelectElement("sldIdLst")
	if lst == nil {
		// keep document order: sldIdLst comes right after sldMasterIdLst
		lst = etree.NewElement("p:sldIdLst")
		idx := 0
		for i, ch := range pres.Root().ChildElements() {
			if ch.Tag == "sldMasterIdLst" {
				idx = i + 1
			}
		}
		pres.Root().InsertChildAt(idx, lst)
	}
	// slide ids start at 256 by convention
	maxID := int64(255)
	for _, sldID := range lst.SelectElements("sldId") {
		if id, err := strconv.ParseInt(sldID.SelectAttrValue("id", "0"), 10, 64); err == nil && id > maxID {
			maxID = id
		}
	}
	sldID := lst.CreateElement("p:sldId")
	sldID.CreateAttr("id", strconv.FormatInt(maxID+1, 10))
	sldID.CreateAttr("r:id", relID)

	return relID, nil
}

// addPart registers a parsed part under the given name, appending it to the
// archive order.
func (p *Presentation) addPart(name string, doc *etree.Document) {
	if _, exists := p.parts[name]; !exists {
		p.order = append(p.order, name)
	}
	p.parts[name] = nil
	p.docs[name] = doc
}

func (p *Presentation) dropPart(name string) {
	if _, exists := p.parts[name]; !exists {
		return
	}
	delete(p.parts, name)
	delete(p.docs, name)
	for i, n := range p.order {
		if n == name {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

func (p *Presentation) freeSlidePartName() string {
	for n := 1; ; n++ {
		name := fmt.Sprintf("ppt/slides/slide%d.xml", n)
		if _, exists := p.parts[name]; !exists {
			return name
		}
	}
}

func relTarget(rels *etree.Document, relID string) string {
	for _, rel := range rels.Root().SelectElements("Relationship") {
		if rel.SelectAttrValue("Id", "") == relID {
			return rel.SelectAttrValue("Target", "")
		}
	}
	return ""
}

func nextRelID(rels *etree.Document) string {
	max := 0
	for _, rel := range rels.Root().SelectElements("Relationship") {
		id := rel.SelectAttrValue("Id", "")
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "rId")); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("rId%d", max+1)
}
