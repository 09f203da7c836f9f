package docimport

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	docxDocumentPart  = "word/document.xml"
	docxRelsPart      = "word/_rels/document.xml.rels"
	docxStylesPart    = "word/styles.xml"
	docxNumberingPart = "word/numbering.xml"
	docxCorePart      = "docProps/core.xml"

	wordNamespace       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	strictWordNamespace = "http://purl.oclc.org/ooxml/wordprocessingml/main"
)

type docxRelationships struct {
	Relationships []struct {
		ID         string `xml:"Id,attr"`
		Target     string `xml:"Target,attr"`
		TargetMode string `xml:"TargetMode,attr"`
	} `xml:"Relationship"`
}

type docxStyles struct {
	Styles []struct {
		StyleID string `xml:"styleId,attr"`
		Name    struct {
			Val string `xml:"val,attr"`
		} `xml:"name"`
	} `xml:"style"`
}

type docxNumbering struct {
	AbstractNums []struct {
		ID     string `xml:"abstractNumId,attr"`
		Levels []struct {
			Level  string `xml:"ilvl,attr"`
			NumFmt struct {
				Val string `xml:"val,attr"`
			} `xml:"numFmt"`
		} `xml:"lvl"`
	} `xml:"abstractNum"`
	Nums []struct {
		ID       string `xml:"numId,attr"`
		Abstract struct {
			Val string `xml:"val,attr"`
		} `xml:"abstractNumId"`
	} `xml:"num"`
}

type docxCore struct {
	Title string `xml:"title"`
}

// readDocxPrimary walks word/document.xml token by token, resolving paragraph
// styles, list numbering and embedded images through the package's other parts.
func (r *Reader) readDocxPrimary(data []byte, fileName string) (doc CanonicalDocument, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("docx reader panic: %v", rec)
		}
	}()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return CanonicalDocument{}, fmt.Errorf("open docx archive: %w", err)
	}

	document, err := readZipFile(zr.File, docxDocumentPart)
	if err != nil {
		return CanonicalDocument{}, err
	}

	w := &docxWalker{
		styles:     r.styles,
		styleNames: loadStyleNames(zr.File),
		ordered:    loadNumbering(zr.File),
		images:     loadImages(zr.File),
	}
	body, err := w.walk(document)
	if err != nil {
		return CanonicalDocument{}, err
	}

	title := fileStem(fileName)
	if raw, err := readZipFile(zr.File, docxCorePart); err == nil {
		var core docxCore
		if xml.Unmarshal(raw, &core) == nil && strings.TrimSpace(core.Title) != "" {
			title = strings.TrimSpace(core.Title)
		}
	}

	return CanonicalDocument{SuggestedTitle: title, HTML: body}, nil
}

func readZipFile(files []*zip.File, target string) ([]byte, error) {
	for _, f := range files {
		if !strings.EqualFold(f.Name, target) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", target, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found in archive", target)
}

func loadStyleNames(files []*zip.File) map[string]string {
	names := map[string]string{}
	raw, err := readZipFile(files, docxStylesPart)
	if err != nil {
		return names
	}
	var styles docxStyles
	if err := xml.Unmarshal(raw, &styles); err != nil {
		return names
	}
	for _, s := range styles.Styles {
		names[s.StyleID] = s.Name.Val
	}
	return names
}

// loadNumbering reports, per numId, whether the top list level is ordered.
func loadNumbering(files []*zip.File) map[string]bool {
	ordered := map[string]bool{}
	raw, err := readZipFile(files, docxNumberingPart)
	if err != nil {
		return ordered
	}
	var numbering docxNumbering
	if err := xml.Unmarshal(raw, &numbering); err != nil {
		return ordered
	}

	abstract := map[string]bool{}
	for _, a := range numbering.AbstractNums {
		for _, lvl := range a.Levels {
			if lvl.Level == "0" {
				abstract[a.ID] = lvl.NumFmt.Val != "" && lvl.NumFmt.Val != "bullet" && lvl.NumFmt.Val != "none"
			}
		}
	}
	for _, n := range numbering.Nums {
		ordered[n.ID] = abstract[n.Abstract.Val]
	}
	return ordered
}

// loadImages resolves image relationships to data URIs so the document stays
// self-contained. External targets are ignored.
func loadImages(files []*zip.File) map[string]string {
	images := map[string]string{}
	raw, err := readZipFile(files, docxRelsPart)
	if err != nil {
		return images
	}
	var rels docxRelationships
	if err := xml.Unmarshal(raw, &rels); err != nil {
		return images
	}
	for _, rel := range rels.Relationships {
		if strings.EqualFold(rel.TargetMode, "External") || !strings.Contains(rel.Target, "media/") {
			continue
		}
		target := strings.TrimPrefix(rel.Target, "/")
		if !strings.HasPrefix(target, "word/") {
			target = path.Join("word", target)
		}
		media, err := readZipFile(files, target)
		if err != nil || len(media) == 0 {
			continue
		}
		mime := mimetype.Detect(media)
		if !strings.HasPrefix(mime.String(), "image/") {
			continue
		}
		images[rel.ID] = "data:" + mime.String() + ";base64," + base64.StdEncoding.EncodeToString(media)
	}
	return images
}

type docxWalker struct {
	styles     StyleMap
	styleNames map[string]string
	ordered    map[string]bool
	images     map[string]string

	out      strings.Builder
	listOpen string

	inPara     bool
	paraStyle  string
	numID      string
	para       strings.Builder
	paraText   bool
	paraImages int
	pendingAlt string

	inRun      bool
	inRunProps bool
	inText     bool
	bold       bool
	italic     bool

	tableDepth int
	cellParas  int
}

// skipped subtrees: alternate-content fallbacks duplicate drawings, text boxes
// nest paragraphs, deleted text and field codes are not visible content.
var docxSkipped = map[string]bool{
	"Fallback":    true,
	"txbxContent": true,
	"delText":     true,
	"instrText":   true,
}

func (w *docxWalker) walk(document []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(document))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if docxSkipped[t.Name.Local] {
				if err := dec.Skip(); err != nil {
					return "", fmt.Errorf("decode document.xml: %w", err)
				}
				continue
			}
			w.start(t)
		case xml.EndElement:
			w.end(t)
		case xml.CharData:
			if w.inText && w.inRun {
				w.writeRun(string(t))
			}
		}
	}
	w.closeList()
	return w.out.String(), nil
}

func (w *docxWalker) start(t xml.StartElement) {
	if structural[t.Name.Local] && !isWordElement(t.Name) {
		return
	}
	switch t.Name.Local {
	case "tbl":
		w.closeList()
		w.out.WriteString(`<table class="` + TableClass + `">`)
		w.tableDepth++
	case "tr":
		w.out.WriteString("<tr>")
	case "tc":
		w.out.WriteString("<td>")
		w.cellParas = 0
	case "p":
		w.inPara = true
		w.paraStyle, w.numID = "", ""
		w.para.Reset()
		w.paraText, w.paraImages = false, 0
	case "pStyle":
		if w.inPara {
			w.paraStyle = attr(t, "val")
		}
	case "numId":
		if w.inPara {
			w.numID = attr(t, "val")
		}
	case "r":
		w.inRun = true
		w.bold, w.italic = false, false
	case "rPr":
		w.inRunProps = w.inRun
	case "b":
		if w.inRunProps {
			w.bold = toggleOn(t)
		}
	case "i":
		if w.inRunProps {
			w.italic = toggleOn(t)
		}
	case "u":
		if w.inRunProps {
			w.italic = w.italic || attr(t, "val") != "none"
		}
	case "t":
		w.inText = true
	case "tab":
		if w.inRun {
			w.para.WriteString(" ")
		}
	case "br", "cr":
		if w.inRun && attr(t, "type") != "page" {
			w.para.WriteString("<br>")
		}
	case "docPr":
		w.pendingAlt = attr(t, "descr")
		if w.pendingAlt == "" {
			w.pendingAlt = attr(t, "title")
		}
	case "blip":
		w.writeImage(attr(t, "embed"))
	case "imagedata":
		w.writeImage(attr(t, "id"))
	}
}

func (w *docxWalker) end(t xml.EndElement) {
	if structural[t.Name.Local] && !isWordElement(t.Name) {
		return
	}
	switch t.Name.Local {
	case "rPr":
		w.inRunProps = false
	case "t":
		w.inText = false
	case "r":
		w.inRun = false
	case "p":
		if w.inPara {
			w.endParagraph()
		}
		w.inPara = false
	case "tc":
		w.out.WriteString("</td>")
	case "tr":
		w.out.WriteString("</tr>")
	case "tbl":
		w.out.WriteString("</table>")
		w.tableDepth--
	}
}

func (w *docxWalker) writeRun(text string) {
	if text == "" {
		return
	}
	s := html.EscapeString(text)
	if w.italic {
		s = "<em>" + s + "</em>"
	}
	if w.bold {
		s = "<strong>" + s + "</strong>"
	}
	w.para.WriteString(s)
	if strings.TrimSpace(text) != "" {
		w.paraText = true
	}
}

func (w *docxWalker) writeImage(relID string) {
	src, ok := w.images[relID]
	if !ok {
		return
	}
	fmt.Fprintf(&w.para, `<img class="%s" src="%s" alt="%s">`, ImageClass, src, html.EscapeString(w.pendingAlt))
	w.pendingAlt = ""
	w.paraImages++
}

func (w *docxWalker) endParagraph() {
	content := strings.TrimSpace(w.para.String())
	if !w.paraText && w.paraImages == 0 {
		return
	}

	if w.tableDepth > 0 {
		if w.cellParas > 0 {
			w.out.WriteString("<br>")
		}
		w.out.WriteString(content)
		w.cellParas++
		return
	}

	level := w.styles.Level(w.styleNames[w.paraStyle], w.paraStyle)
	if level == 0 && w.numID != "" && w.numID != "0" {
		tag := "ul"
		if w.ordered[w.numID] {
			tag = "ol"
		}
		if w.listOpen != tag {
			w.closeList()
			w.out.WriteString("<" + tag + ">")
			w.listOpen = tag
		}
		w.out.WriteString("<li>" + content + "</li>")
		return
	}

	w.closeList()
	if level > 0 {
		fmt.Fprintf(&w.out, "<h%d>%s</h%d>", level, content, level)
		return
	}
	w.out.WriteString("<p>" + content + "</p>")
}

func (w *docxWalker) closeList() {
	if w.listOpen == "" {
		return
	}
	w.out.WriteString("</" + w.listOpen + ">")
	w.listOpen = ""
}

// structural elements share local names with DrawingML (a:p, a:tbl).
var structural = map[string]bool{"p": true, "tbl": true, "tr": true, "tc": true}

func isWordElement(name xml.Name) bool {
	return name.Space == "" || name.Space == wordNamespace || name.Space == strictWordNamespace
}

func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// toggleOn reads an OOXML on/off property such as <w:b/> or <w:b w:val="0"/>.
func toggleOn(t xml.StartElement) bool {
	switch attr(t, "val") {
	case "0", "false", "off":
		return false
	}
	return true
}
