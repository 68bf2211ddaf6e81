package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Helpers for fabricating complete PDF files on disk. The builder assembles
// real objects and computes the cross-reference offsets, so the files parse
// with the same code path production documents go through.

type testLink struct {
	uri      string     // URI action target
	internal bool       // GoTo action to the first page
	dest     bool       // bare /Dest entry, no action
	launch   bool       // Launch action, classified as neither uri nor internal
	bare     bool       // link annotation with no target at all
	square   bool       // non-link annotation subtype
	contents string     // annotation display text
	rect     [4]float64 // annotation rectangle
}

type testPage struct {
	text  string
	links []testLink
}

func writeTestPDF(t *testing.T, dir, name string, pages []testPage, info map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buildTestPDF(pages, info), 0o644); err != nil {
		t.Fatalf("failed to write test PDF: %v", err)
	}
	return path
}

func buildTestPDF(pages []testPage, info map[string]string) []byte {
	// Object numbering: 1 catalog, 2 page tree, 3 font, then per page the
	// page dict, its content stream, and its annotations, then Info last.
	next := 4
	pageNums := make([]int, len(pages))
	contentNums := make([]int, len(pages))
	annotNums := make([][]int, len(pages))
	for i, p := range pages {
		pageNums[i] = next
		next++
		contentNums[i] = next
		next++
		annotNums[i] = make([]int, len(p.links))
		for j := range p.links {
			annotNums[i][j] = next
			next++
		}
	}
	infoNum := 0
	if len(info) > 0 {
		infoNum = next
		next++
	}
	size := next

	bodies := make(map[int]string, size)

	kids := make([]string, len(pages))
	for i, n := range pageNums {
		kids[i] = fmt.Sprintf("%d 0 R", n)
	}
	bodies[1] = "<< /Type /Catalog /Pages 2 0 R >>"
	bodies[2] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))
	bodies[3] = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>"

	for i, p := range pages {
		stream := fmt.Sprintf("BT\n/F1 12 Tf\n72 720 Td\n(%s) Tj\nET", p.text)
		bodies[contentNums[i]] = fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream)

		annotsEntry := ""
		if len(p.links) > 0 {
			refs := make([]string, len(p.links))
			for j, n := range annotNums[i] {
				refs[j] = fmt.Sprintf("%d 0 R", n)
			}
			annotsEntry = fmt.Sprintf(" /Annots [%s]", strings.Join(refs, " "))
		}
		bodies[pageNums[i]] = fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792]"+
				" /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R%s >>",
			contentNums[i], annotsEntry)

		for j, l := range p.links {
			bodies[annotNums[i][j]] = annotationBody(l, pageNums[0])
		}
	}

	if infoNum != 0 {
		var b strings.Builder
		b.WriteString("<<")
		for _, key := range []string{"Title", "Author", "Subject", "Creator", "Producer", "Keywords"} {
			if v, ok := info[key]; ok {
				fmt.Fprintf(&b, " /%s (%s)", key, v)
			}
		}
		b.WriteString(" >>")
		bodies[infoNum] = b.String()
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, size)
	for n := 1; n < size; n++ {
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, bodies[n])
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", size)
	buf.WriteString("0000000000 65535 f \n")
	for n := 1; n < size; n++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[n])
	}

	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R", size)
	if infoNum != 0 {
		fmt.Fprintf(&buf, " /Info %d 0 R", infoNum)
	}
	fmt.Fprintf(&buf, " >>\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	return buf.Bytes()
}

func annotationBody(l testLink, firstPageNum int) string {
	if l.square {
		return fmt.Sprintf("<< /Type /Annot /Subtype /Square /Rect [%g %g %g %g] >>",
			l.rect[0], l.rect[1], l.rect[2], l.rect[3])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<< /Type /Annot /Subtype /Link /Rect [%g %g %g %g] /Border [0 0 0]",
		l.rect[0], l.rect[1], l.rect[2], l.rect[3])
	if l.contents != "" {
		fmt.Fprintf(&b, " /Contents (%s)", l.contents)
	}
	switch {
	case l.uri != "":
		fmt.Fprintf(&b, " /A << /S /URI /URI (%s) >>", l.uri)
	case l.internal:
		fmt.Fprintf(&b, " /A << /S /GoTo /D [%d 0 R /Fit] >>", firstPageNum)
	case l.dest:
		fmt.Fprintf(&b, " /Dest [%d 0 R /Fit]", firstPageNum)
	case l.launch:
		b.WriteString(" /A << /S /Launch /F (notes.txt) >>")
	case l.bare:
		// no target entries at all
	}
	b.WriteString(" >>")
	return b.String()
}
