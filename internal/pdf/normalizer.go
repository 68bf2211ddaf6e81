package pdf

import (
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Normalizer turns raw link annotations into LinkRecords. It never fails:
// whatever a single annotation is missing degrades to empty fields on that
// one record and the pass continues.
type Normalizer struct{}

// NewNormalizer creates a link normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// DocumentLinks normalizes every page of doc in ascending page order.
func (n *Normalizer) DocumentLinks(doc *Document) []LinkRecord {
	var records []LinkRecord
	for pageNr := 1; pageNr <= doc.PageCount(); pageNr++ {
		records = append(records, n.PageLinks(doc, pageNr)...)
	}
	return records
}

// PageLinks normalizes the link annotations of one 1-indexed page,
// preserving the order the page stores them in. Non-link annotation
// subtypes (widgets, highlights) carry no link semantics and produce no
// records.
func (n *Normalizer) PageLinks(doc *Document, pageNr int) []LinkRecord {
	var records []LinkRecord
	for _, annotDict := range doc.PageAnnotations(pageNr) {
		subtype := annotDict.Subtype()
		if subtype == nil || *subtype != "Link" {
			continue
		}
		records = append(records, n.normalize(doc, annotDict, pageNr))
	}
	return records
}

// normalize builds one LinkRecord from a link annotation dictionary. The
// variant tag is decided here, once; callers never re-inspect the raw
// dictionary.
func (n *Normalizer) normalize(doc *Document, annotDict types.Dict, pageNr int) LinkRecord {
	rec := LinkRecord{
		PageNumber: pageNr,
		Type:       LinkTypeOther,
		Text:       n.displayText(doc, annotDict),
		Position:   n.position(doc, annotDict),
	}

	if actionDict := n.action(doc, annotDict); actionDict != nil {
		switch n.actionKind(doc, actionDict) {
		case "URI":
			rec.Type = LinkTypeURI
			rec.URI = n.actionURI(doc, actionDict)
			if rec.URI == "" {
				// URI action without a usable target carries no
				// external link semantics.
				rec.Type = LinkTypeOther
			}
		case "GoTo":
			rec.Type = LinkTypeInternal
		}
		return rec
	}

	// No action: a bare destination entry is an internal reference, an
	// annotation missing both stays LinkTypeOther with empty fields.
	if _, found := annotDict.Find("Dest"); found {
		rec.Type = LinkTypeInternal
	}
	return rec
}

// action resolves the annotation's action dictionary, nil when absent or
// unreadable.
func (n *Normalizer) action(doc *Document, annotDict types.Dict) types.Dict {
	obj, found := annotDict.Find("A")
	if !found {
		return nil
	}
	actionDict, err := doc.ctx.DereferenceDict(obj)
	if err != nil {
		return nil
	}
	return actionDict
}

// actionKind reads the action's S entry ("URI", "GoTo", "Launch", ...).
func (n *Normalizer) actionKind(doc *Document, actionDict types.Dict) string {
	obj, found := actionDict.Find("S")
	if !found {
		return ""
	}
	name, err := doc.ctx.DereferenceName(obj, model.V10, nil)
	if err != nil {
		return ""
	}
	return string(name)
}

// actionURI reads the literal URI string of a URI action.
func (n *Normalizer) actionURI(doc *Document, actionDict types.Dict) string {
	obj, found := actionDict.Find("URI")
	if !found {
		return ""
	}
	uri, err := doc.ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(uri)
}

// displayText returns the annotation's own display text when it has one.
// No text is inferred from the surrounding page content.
func (n *Normalizer) displayText(doc *Document, annotDict types.Dict) string {
	obj, found := annotDict.Find("Contents")
	if !found {
		return ""
	}
	text, err := doc.ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// position reads the annotation's Rect and passes the four coordinates
// through without any coordinate-system conversion. A missing or malformed
// Rect degrades to the zero rectangle.
func (n *Normalizer) position(doc *Document, annotDict types.Dict) Rect {
	obj, found := annotDict.Find("Rect")
	if !found {
		return Rect{}
	}
	rectArray, err := doc.ctx.DereferenceArray(obj)
	if err != nil || len(rectArray) != 4 {
		return Rect{}
	}

	coords := make([]float64, 4)
	for i, coordObj := range rectArray {
		if f, err := doc.ctx.DereferenceNumber(coordObj); err == nil {
			coords[i] = f
		}
	}
	return Rect{Left: coords[0], Top: coords[1], Right: coords[2], Bottom: coords[3]}
}
