package convert

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// PptxConverter extracts slide text straight from the OOXML package: a
// .pptx is a zip whose slides live at ppt/slides/slideN.xml. Slides are
// emitted in numeric order as `# Slide N` sections separated by rules.
type PptxConverter struct{}

func (c *PptxConverter) Extensions() []string {
	return []string{"pptx"}
}

var slideNameRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

func (c *PptxConverter) Convert(_ context.Context, path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("could not open PPTX: %w", err)
	}
	defer zr.Close()

	type slide struct {
		num  int
		file *zip.File
	}
	var slides []slide
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if m := slideNameRe.FindStringSubmatch(name); m != nil {
			num, _ := strconv.Atoi(m[1])
			slides = append(slides, slide{num: num, file: f})
		}
	}
	if len(slides) == 0 {
		return "", fmt.Errorf("no slides found in presentation")
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	var sections []string
	for _, s := range slides {
		text, err := slideText(s.file)
		if err != nil {
			return "", fmt.Errorf("slide %d: %w", s.num, err)
		}
		sections = append(sections, fmt.Sprintf("# Slide %d\n\n%s", s.num, text))
	}

	return strings.Join(sections, "\n\n---\n\n"), nil
}

// slideText pulls the character data out of DrawingML, one line per
// paragraph (`a:p` elements).
func slideText(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var b strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" && b.Len() > 0 {
				b.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}
