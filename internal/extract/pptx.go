package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/hyperjump/pagewise/internal/models"
)

// pptxSlidePath matches slide XML files inside a .pptx zip and captures the slide number.
var pptxSlidePath = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

var (
	// atTag matches <a:t>text</a:t> or <a:t xml:space="preserve">text</a:t> (and any other attributes).
	atTag = regexp.MustCompile(`<a:t[^>]*>([^<]*)</a:t>`)

	// shapeBlock matches one <p:sp> shape; \b keeps <p:spTree> and <p:spPr> out.
	shapeBlock = regexp.MustCompile(`(?s)<p:sp\b[^>]*>.*?</p:sp>`)

	// paragraphBlock matches one <a:p> paragraph; \b keeps <a:pPr> out.
	paragraphBlock = regexp.MustCompile(`(?s)<a:p\b[^>]*>.*?</a:p>`)

	titlePlaceholder = regexp.MustCompile(`<p:ph\b[^>]*type="(?:title|ctrTitle)"`)
	blipEmbed        = regexp.MustCompile(`<a:blip\b[^>]*r:embed="([^"]+)"`)
	relationshipTag  = regexp.MustCompile(`<Relationship\b[^>]*>`)
	relIDAttr        = regexp.MustCompile(`\bId="([^"]*)"`)
	relTargetAttr    = regexp.MustCompile(`\bTarget="([^"]*)"`)
)

type pptxSlide struct {
	number int
	file   *zip.File
}

// extractPPTX extracts one page per slide from .pptx bytes. PPTX is a ZIP containing
// ppt/slides/slideN.xml (Office Open XML); slides are returned in slide-number order.
// Text is grouped by paragraph, the title comes from the title placeholder and the image
// is the first picture on the slide that can be decoded.
func extractPPTX(content []byte) ([]models.Page, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("extract PPTX: not a zip: %w", err)
	}
	files := make(map[string]*zip.File, len(zr.File))
	var slides []pptxSlide
	for _, f := range zr.File {
		files[f.Name] = f
		m := pptxSlidePath.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, pptxSlide{number: n, file: f})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].number < slides[j].number })

	pages := make([]models.Page, 0, len(slides))
	for _, s := range slides {
		data, err := readZipFile(s.file)
		if err != nil {
			return nil, fmt.Errorf("extract PPTX: %w", err)
		}
		slideXML := string(data)
		page := models.Page{
			Text:  slideText(slideXML),
			Title: slideTitle(slideXML),
		}
		page.ImageBase64 = slideImage(files, s.number, slideXML)
		pages = append(pages, page)
	}
	return pages, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return data, nil
}

// paragraphs returns the non-empty paragraphs of an XML fragment. Runs inside a paragraph
// are concatenated as they are.
func paragraphs(fragment string) []string {
	var out []string
	for _, p := range paragraphBlock.FindAllString(fragment, -1) {
		var b strings.Builder
		for _, run := range atTag.FindAllStringSubmatch(p, -1) {
			b.WriteString(html.UnescapeString(run[1]))
		}
		if text := strings.TrimSpace(b.String()); text != "" {
			out = append(out, text)
		}
	}
	return out
}

func slideText(slideXML string) string {
	return strings.Join(paragraphs(slideXML), "\n")
}

func slideTitle(slideXML string) string {
	for _, shape := range shapeBlock.FindAllString(slideXML, -1) {
		if !titlePlaceholder.MatchString(shape) {
			continue
		}
		if title := strings.Join(paragraphs(shape), " "); title != "" {
			return title
		}
	}
	return ""
}

// slideImage returns the first picture of the slide as base64 PNG, or "" when the slide has
// no picture in a decodable format.
func slideImage(files map[string]*zip.File, slideNumber int, slideXML string) string {
	embeds := blipEmbed.FindAllStringSubmatch(slideXML, -1)
	if len(embeds) == 0 {
		return ""
	}
	relsFile, ok := files[fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", slideNumber)]
	if !ok {
		return ""
	}
	rels, err := readZipFile(relsFile)
	if err != nil {
		return ""
	}
	targets := relationshipTargets(string(rels))
	for _, m := range embeds {
		target, ok := targets[m[1]]
		if !ok {
			continue
		}
		media, ok := files[path.Clean(path.Join("ppt/slides", target))]
		if !ok {
			continue
		}
		data, err := readZipFile(media)
		if err != nil {
			continue
		}
		if encoded, err := encodeImageBytes(data); err == nil {
			return encoded
		}
	}
	return ""
}

func relationshipTargets(rels string) map[string]string {
	targets := make(map[string]string)
	for _, tag := range relationshipTag.FindAllString(rels, -1) {
		id := relIDAttr.FindStringSubmatch(tag)
		target := relTargetAttr.FindStringSubmatch(tag)
		if id == nil || target == nil {
			continue
		}
		targets[id[1]] = target[1]
	}
	return targets
}
