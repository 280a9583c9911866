// Package pdftest builds small, valid PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Page describes one generated page
type Page struct {
	// Lines are drawn top to bottom in Helvetica
	Lines []string
	// Image places a 2x2 grayscale image XObject on the page
	Image bool
	// BadFlate marks the content stream /FlateDecode while storing it
	// uncompressed, so decoding it fails
	BadFlate bool
}

// Build returns a PDF containing the given pages. Zero pages yields a
// well-formed document with an empty page tree.
func Build(pages ...Page) []byte {
	return BuildWithCount(len(pages), pages...)
}

// BuildWithCount is Build with the page tree's /Count set to count instead
// of the number of pages
func BuildWithCount(count int, pages ...Page) []byte {
	b := &builder{}

	// 1: catalog, 2: page tree, 3: font. Page objects follow.
	b.reserve(3)

	kids := make([]string, 0, len(pages))
	for _, p := range pages {
		pageID := b.add("")
		kids = append(kids, fmt.Sprintf("%d 0 R", pageID))

		contentDict := ""
		if p.BadFlate {
			contentDict = "/Filter /FlateDecode"
		}
		contentID := b.add(streamObject(contentDict, contentStream(p)))

		resources := "/Font << /F1 3 0 R >>"
		if p.Image {
			imageID := b.add(streamObject(
				"/Type /XObject /Subtype /Image /Width 2 /Height 2 /ColorSpace /DeviceGray /BitsPerComponent 8",
				string([]byte{0x00, 0xff, 0xff, 0x00}),
			))
			resources += fmt.Sprintf(" /XObject << /Im1 %d 0 R >>", imageID)
		}

		b.set(pageID, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << %s >> /Contents %d 0 R >>",
			resources, contentID,
		))
	}

	b.set(1, "<< /Type /Catalog /Pages 2 0 R >>")
	b.set(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), count))
	b.set(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	return b.bytes()
}

// Garbage returns bytes that carry a PDF header but no usable structure
func Garbage() []byte {
	return []byte("%PDF-1.4\nthis is not really a pdf\n")
}

func contentStream(p Page) string {
	var sb strings.Builder

	if p.Image {
		sb.WriteString("q 200 0 0 200 72 400 cm /Im1 Do Q\n")
	}

	if len(p.Lines) > 0 {
		sb.WriteString("BT /F1 12 Tf 72 720 Td\n")
		for i, line := range p.Lines {
			if i > 0 {
				sb.WriteString("0 -20 Td\n")
			}
			fmt.Fprintf(&sb, "(%s) Tj\n", escape(line))
		}
		sb.WriteString("ET\n")
	}

	return sb.String()
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

func streamObject(dict, data string) string {
	if dict != "" {
		dict += " "
	}
	return fmt.Sprintf("<< %s/Length %d >>\nstream\n%s\nendstream", dict, len(data), data)
}

type builder struct {
	objects []string
}

func (b *builder) reserve(n int) {
	for i := 0; i < n; i++ {
		b.objects = append(b.objects, "")
	}
}

func (b *builder) add(body string) int {
	b.objects = append(b.objects, body)
	return len(b.objects)
}

func (b *builder) set(id int, body string) {
	b.objects[id-1] = body
}

func (b *builder) bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(b.objects))
	for i, body := range b.objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(b.objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(b.objects)+1, xref)

	return buf.Bytes()
}
