// Package pptx implements a minimal OOXML presentation layer: enough of the
// PPTX container and slide markup to clone slides from a template, rewrite
// their text content and save the result. Parts the package does not
// understand pass through byte-identical.
package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	fixzip "github.com/hidez8891/zip"
)

const (
	presentationPart = "ppt/presentation.xml"
	contentTypesPart = "[Content_Types].xml"

	slideContentType = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	slideRelType     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	layoutRelType    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	masterRelType    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
)

// Presentation is one deck loaded from a .pptx archive. It is not safe for
// concurrent use - every generation request owns its own instance.
type Presentation struct {
	parts map[string][]byte          // raw payload of every archive member
	order []string                   // archive member order, new parts appended
	docs  map[string]*etree.Document // parsed XML for parts we may mutate
}

// Parse loads a presentation from raw .pptx bytes.
func Parse(data []byte) (*Presentation, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("unable to read pptx archive: %w", err)
	}

	p := &Presentation{
		parts: make(map[string][]byte, len(zr.File)),
		docs:  make(map[string]*etree.Document),
	}

	for _, f := range zr.File {
		name := f.Name
		if !isSafePartName(name) {
			return nil, fmt.Errorf("pptx part %q: unsafe path", name)
		}
		r, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("unable to open pptx part %q: %w", name, err)
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("unable to read pptx part %q: %w", name, err)
		}
		p.parts[name] = data
		p.order = append(p.order, name)
	}

	if _, exists := p.parts[presentationPart]; !exists {
		return nil, fmt.Errorf("not a presentation: %s is missing", presentationPart)
	}
	if _, err := p.doc(presentationPart); err != nil {
		return nil, err
	}
	if _, err := p.doc(contentTypesPart); err != nil {
		return nil, err
	}
	if _, err := p.doc(relsPath(presentationPart)); err != nil {
		return nil, err
	}
	return p, nil
}

// Open loads a presentation from a .pptx file on disk.
func Open(path string) (*Presentation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read template file: %w", err)
	}
	return Parse(data)
}

// doc returns parsed XML tree for the part, parsing and caching it on first
// access. Parsed parts are serialized back on save, untouched parts are
// written from original bytes.
func (p *Presentation) doc(name string) (*etree.Document, error) {
	if d, parsed := p.docs[name]; parsed {
		return d, nil
	}
	data, exists := p.parts[name]
	if !exists {
		return nil, fmt.Errorf("pptx part %q not found", name)
	}
	d := etree.NewDocument()
	if err := d.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("unable to parse pptx part %q: %w", name, err)
	}
	p.docs[name] = d
	return d, nil
}

// Write serializes the presentation into w as a fresh zip archive.
func (p *Presentation) Write(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, name := range p.order {
		f, err := zw.CreateHeader(&zip.FileHeader{
			Name:   name,
			Method: zip.Deflate,
		})
		if err != nil {
			return fmt.Errorf("unable to create archive member %q: %w", name, err)
		}
		if d, parsed := p.docs[name]; parsed {
			if _, err := d.WriteTo(f); err != nil {
				return fmt.Errorf("unable to serialize part %q: %w", name, err)
			}
			continue
		}
		if _, err := f.Write(p.parts[name]); err != nil {
			return fmt.Errorf("unable to write part %q: %w", name, err)
		}
	}
	return zw.Close()
}

// Save persists the presentation to a file.
func (p *Presentation) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer f.Close()

	if err := p.Write(f); err != nil {
		return err
	}
	return f.Close()
}

// Standard 16:9 canvas, used when the presentation does not declare a size.
const (
	defaultSlideCx EMU = 12192000
	defaultSlideCy EMU = 6858000
)

// SlideSize returns deck canvas dimensions in EMU.
func (p *Presentation) SlideSize() (cx, cy EMU) {
	cx, cy = defaultSlideCx, defaultSlideCy
	pres, err := p.doc(presentationPart)
	if err != nil {
		return cx, cy
	}
	if sz := pres.Root().SelectElement("sldSz"); sz != nil {
		x, _ := strconv.ParseInt(sz.SelectAttrValue("cx", "0"), 10, 64)
		y, _ := strconv.ParseInt(sz.SelectAttrValue("cy", "0"), 10, 64)
		if x > 0 && y > 0 {
			cx, cy = EMU(x), EMU(y)
		}
	}
	return cx, cy
}

// LayoutParts returns slide layout part names in archive order.
func (p *Presentation) LayoutParts() []string {
	return p.partsUnder("ppt/slideLayouts/")
}

// MasterParts returns slide master part names in archive order.
func (p *Presentation) MasterParts() []string {
	return p.partsUnder("ppt/slideMasters/")
}

func (p *Presentation) partsUnder(prefix string) []string {
	var out []string
	for _, name := range p.order {
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".xml") {
			out = append(out, name)
		}
	}
	return out
}

// PartTextFrames returns every text body found in the given part. Used to
// normalize layout and master placeholders before generation.
func (p *Presentation) PartTextFrames(part string) ([]*TextFrame, error) {
	doc, err := p.doc(part)
	if err != nil {
		return nil, err
	}
	var out []*TextFrame
	for _, el := range doc.FindElements("//txBody") {
		out = append(out, &TextFrame{el: el})
	}
	return out, nil
}

// RewriteWithoutDataDescriptors re-packs a finished archive clearing data
// descriptor flags. Some renderers (notably Google Slides importers) choke
// on streamed zip members.
func RewriteWithoutDataDescriptors(from, to string) error {

	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer out.Close()

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	defer w.Close()

	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^fixzip.FlagDataDescriptor

		// copy zip entry
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	return nil
}

// relsPath maps a part name to its relationships part.
func relsPath(part string) string {
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}

// resolveTarget maps a relationship target relative to its source part.
func resolveTarget(sourcePart, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(path.Dir(sourcePart), target))
}

// relativeTarget is the inverse of resolveTarget: part name expressed
// relative to the source part's directory. filepath.Rel is OS-specific so
// slash paths are handled directly.
func relativeTarget(sourcePart, part string) string {
	baseSegs := strings.Split(path.Clean(path.Dir(sourcePart)), "/")
	targetSegs := strings.Split(path.Clean(part), "/")
	common := 0
	for common < len(baseSegs) && common < len(targetSegs) && baseSegs[common] == targetSegs[common] {
		common++
	}
	var segs []string
	for i := common; i < len(baseSegs); i++ {
		segs = append(segs, "..")
	}
	segs = append(segs, targetSegs[common:]...)
	return path.Join(segs...)
}

// isSafePartName rejects part names that could escape an extraction
// directory. Same zip-slip guard the archive sources use.
func isSafePartName(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
