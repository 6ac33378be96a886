package deck

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"deckgen/config"
	"deckgen/pptx"
	"deckgen/state"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`

const nsDecls = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

// writeTemplate drops a minimal two-placeholder template into dir and
// returns its path. The bottom shape comes first in document order.
func writeTemplate(t *testing.T, dir, name string) string {
	t.Helper()

	parts := []struct{ name, data string }{
		{"[Content_Types].xml", xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>` +
			`<Override PartName="/ppt/slides/slide1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>` +
			`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>` +
			`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>` +
			`</Types>`},
		{"_rels/.rels", xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
			`</Relationships>`},
		{"ppt/presentation.xml", xmlHeader + `<p:presentation ` + nsDecls + `>` +
			`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
			`<p:sldIdLst><p:sldId id="256" r:id="rId2"/></p:sldIdLst>` +
			`<p:sldSz cx="12192000" cy="6858000"/>` +
			`</p:presentation>`},
		{"ppt/_rels/presentation.xml.rels", xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>` +
			`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide1.xml"/>` +
			`</Relationships>`},
		{"ppt/slides/slide1.xml", xmlHeader + `<p:sld ` + nsDecls + `><p:cSld><p:spTree>` +
			`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
			`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Bottom"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>` +
			`<p:spPr><a:xfrm><a:off x="700000" y="4000000"/><a:ext cx="10000000" cy="2000000"/></a:xfrm></p:spPr>` +
			`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US"/><a:t>bottom proto</a:t></a:r></a:p></p:txBody></p:sp>` +
			`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Top"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>` +
			`<p:spPr><a:xfrm><a:off x="700000" y="500000"/><a:ext cx="10000000" cy="2000000"/></a:xfrm></p:spPr>` +
			`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:rPr sz="4400" b="1"/><a:t>top proto</a:t></a:r></a:p></p:txBody></p:sp>` +
			`</p:spTree></p:cSld></p:sld>`},
		{"ppt/slides/_rels/slide1.xml.rels", xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
			`</Relationships>`},
		{"ppt/slideLayouts/slideLayout1.xml", xmlHeader + `<p:sldLayout ` + nsDecls + `><p:cSld><p:spTree>` +
			`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
			`</p:spTree></p:cSld></p:sldLayout>`},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="../slideMasters/slideMaster1.xml"/>` +
			`</Relationships>`},
		{"ppt/slideMasters/slideMaster1.xml", xmlHeader + `<p:sldMaster ` + nsDecls + `><p:cSld><p:spTree>` +
			`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
			`</p:spTree></p:cSld></p:sldMaster>`},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
			`</Relationships>`},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			t.Fatalf("unable to create fixture part %s: %v", part.name, err)
		}
		if _, err := f.Write([]byte(part.data)); err != nil {
			t.Fatalf("unable to write fixture part %s: %v", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("unable to finish fixture archive: %v", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("unable to write fixture template: %v", err)
	}
	return path
}

func testContext(t *testing.T, cfg *config.Config) context.Context {
	t.Helper()
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Cfg = cfg
	env.Log = zaptest.NewLogger(t)
	return ctx
}

func testConfig(workDir string) *config.Config {
	bold := true
	return &config.Config{
		Deck: config.DeckConfig{
			WordsPerLine: 5,
			WorkDir:      workDir,
			Formats: map[string]config.TemplateHints{
				"marsiya": {
					Top:    &config.RegionHint{Color: "#ffc000", Font: "Open Sans", Size: 54, Bold: &bold},
					Bottom: &config.RegionHint{Color: "#ffffff", Font: "Open Sans", Size: 40, Bold: &bold},
				},
			},
		},
	}
}

// slideXML digs one slide part out of the produced archive for raw markup checks.
func slideXML(t *testing.T, deckPath, part string) string {
	t.Helper()
	zr, err := zip.OpenReader(deckPath)
	if err != nil {
		t.Fatalf("unable to open produced deck: %v", err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != part {
			continue
		}
		r, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open part %s: %v", part, err)
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("unable to read part %s: %v", part, err)
		}
		return string(data)
	}
	t.Fatalf("part %s not found in produced deck", part)
	return ""
}

func TestGenerateDeck(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeTemplate(t, dir, "Marsiya.pptx")
	ctx := testContext(t, testConfig(dir))

	out, err := Generate(ctx, Request{
		TemplatePath: tmpl,
		TopText:      "aaa\nbbb",
		BottomText:   "one two three four five six seven",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	defer os.Remove(out)

	if base := filepath.Base(out); !strings.HasPrefix(base, "export_") || !strings.HasSuffix(base, ".pptx") {
		t.Errorf("unexpected output name: %s", base)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("unable to read produced deck: %v", err)
	}
	prs, err := pptx.Parse(data)
	if err != nil {
		t.Fatalf("produced deck does not parse: %v", err)
	}

	slides, err := prs.Slides()
	if err != nil {
		t.Fatalf("Slides failed: %v", err)
	}
	if len(slides) != 2 {
		t.Fatalf("expected 2 slides (prototype removed), got %d", len(slides))
	}

	// first slide, top region: single paragraph with the top line
	shapes := slides[0].TextShapes()
	if len(shapes) < 2 {
		t.Fatalf("generated slide lost its placeholders: %d shapes", len(shapes))
	}
	topParas := shapes[0].TextFrame().Paragraphs()
	if len(topParas) != 1 {
		t.Errorf("top region has %d paragraphs, want 1", len(topParas))
	}
	topRuns := topParas[0].Runs()
	if len(topRuns) != 1 || topRuns[0].Text() != "aaa" {
		t.Errorf("top region text wrong: %+v", runTexts(topRuns))
	}

	// template sample wins, hints fill the gaps
	f := topRuns[0].Font()
	if f.Size != 4400 {
		t.Errorf("template size was overridden: %d", f.Size)
	}
	if f.Name != "Open Sans" {
		t.Errorf("hint font not filled in: %q", f.Name)
	}
	if f.Color != "FFC000" {
		t.Errorf("hint color not filled in: %q", f.Color)
	}

	// bottom region: reflowed into 5-word paragraphs. The decoration boxes
	// sit below it, so it is the second shape, not the last one.
	bottomParas := shapes[1].TextFrame().Paragraphs()
	var bottomLines []string
	for _, p := range bottomParas {
		var txt string
		for _, r := range p.Runs() {
			txt += r.Text()
		}
		bottomLines = append(bottomLines, txt)
	}
	if len(bottomLines) != 2 || bottomLines[0] != "one two three four five" || bottomLines[1] != "six seven" {
		t.Errorf("bottom region not reflowed: %q", bottomLines)
	}

	// second slide got the padded empty bottom
	shapes2 := slides[1].TextShapes()
	secondBottom := shapes2[1].TextFrame().Paragraphs()
	if len(secondBottom) != 1 {
		t.Errorf("padded bottom should be one empty paragraph, got %d", len(secondBottom))
	}

	// marsiya decoration on every slide
	for _, s := range slides {
		xml := slideXML(t, out, s.PartName())
		if !strings.Contains(xml, footerText) {
			t.Errorf("slide %s is missing the footer", s.PartName())
		}
		if !strings.Contains(xml, `val="FF0000"`) {
			t.Errorf("slide %s is missing the red dot marker", s.PartName())
		}
		if !strings.Contains(xml, `algn="ctr"`) {
			t.Errorf("slide %s top region is not centered", s.PartName())
		}
		if !strings.Contains(xml, `<a:buNone/>`) {
			t.Errorf("slide %s paragraphs were not reset", s.PartName())
		}
	}
}

func TestGenerateWithFixZip(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeTemplate(t, dir, "Plain.pptx")
	cfg := testConfig(dir)
	cfg.Deck.FixZip = true
	ctx := testContext(t, cfg)

	out, err := Generate(ctx, Request{TemplatePath: tmpl, TopText: "x", BottomText: "y"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	defer os.Remove(out)

	zr, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("unable to open produced deck: %v", err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Flags&0x8 != 0 {
			t.Errorf("part %s still has data descriptor flag", f.Name)
		}
	}
	if _, err := os.Stat(out + ".raw"); !os.IsNotExist(err) {
		t.Errorf("intermediate archive was not cleaned up")
	}
}

func runTexts(runs []*pptx.Run) []string {
	var out []string
	for _, r := range runs {
		out = append(out, r.Text())
	}
	return out
}
