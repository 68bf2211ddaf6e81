package pdf

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Document is an open PDF ready for extraction. It is created by
// OpenDocument, never mutated, and must be closed by the caller; Service
// guarantees the close on every exit path.
type Document struct {
	path      string
	file      *os.File
	ctx       *model.Context
	pageDicts []types.Dict
	closed    bool
}

// OpenDocument opens the PDF at path, decrypting with password when the
// document is protected. It makes a single attempt; a wrong password is not
// retried. All failures are *OpenError values.
func OpenDocument(path, password string) (*Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, classifyOpenError(path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, classifyOpenError(path, err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if password != "" {
		conf.UserPW = password
		conf.OwnerPW = password
	}

	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		f.Close()
		return nil, classifyOpenError(path, fmt.Errorf("pdfcpu read: %w", err))
	}

	doc := &Document{path: path, file: f, ctx: ctx}
	if err := doc.collectPageDicts(); err != nil {
		f.Close()
		return nil, classifyOpenError(path, err)
	}

	return doc, nil
}

// Close releases the underlying file handle. Safe to call more than once.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.file.Close()
}

// Path returns the file path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.pageDicts)
}

// Encrypted reports whether the document carries an encryption dictionary.
func (d *Document) Encrypted() bool {
	return d.ctx.Encrypt != nil
}

// PageText extracts the plain text of the 1-indexed page. Extraction
// problems on a single page degrade to an empty string; they never fail the
// document-wide pass.
func (d *Document) PageText(pageNr int) string {
	if pageNr < 1 || pageNr > len(d.pageDicts) {
		return ""
	}
	return extractPageText(d.ctx, pageNr)
}

// PageAnnotations returns the raw annotation dictionaries of the 1-indexed
// page, in the order the page stores them. Entries that cannot be
// dereferenced are skipped.
func (d *Document) PageAnnotations(pageNr int) []types.Dict {
	if pageNr < 1 || pageNr > len(d.pageDicts) {
		return nil
	}

	annotsObj, found := d.pageDicts[pageNr-1].Find("Annots")
	if !found {
		return nil
	}

	annotsArray, err := d.ctx.DereferenceArray(annotsObj)
	if err != nil {
		return nil
	}

	annots := make([]types.Dict, 0, len(annotsArray))
	for _, ref := range annotsArray {
		annotDict, err := d.ctx.DereferenceDict(ref)
		if err != nil || annotDict == nil {
			continue
		}
		annots = append(annots, annotDict)
	}
	return annots
}

// Metadata returns the document info dictionary as a flat passthrough.
func (d *Document) Metadata() DocumentMetadata {
	md := DocumentMetadata{Encrypted: d.Encrypted()}

	if d.ctx.Info == nil {
		return md
	}
	infoDict, err := d.ctx.DereferenceDict(*d.ctx.Info)
	if err != nil || infoDict == nil {
		return md
	}

	md.Title = d.infoString(infoDict, "Title")
	md.Author = d.infoString(infoDict, "Author")
	md.Subject = d.infoString(infoDict, "Subject")
	md.Creator = d.infoString(infoDict, "Creator")
	md.Producer = d.infoString(infoDict, "Producer")
	md.Keywords = d.infoString(infoDict, "Keywords")
	md.CreationDate = d.infoString(infoDict, "CreationDate")
	md.ModificationDate = d.infoString(infoDict, "ModDate")

	return md
}

// infoString reads one string entry from the info dictionary, empty when
// the entry is missing or not a string.
func (d *Document) infoString(dict types.Dict, key string) string {
	obj, found := dict.Find(key)
	if !found {
		return ""
	}
	s, err := d.ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil)
	if err != nil {
		return ""
	}
	return s
}

// collectPageDicts walks the page tree depth-first so pageDicts holds the
// page dictionaries in document order.
func (d *Document) collectPageDicts() error {
	rootDict, err := d.ctx.Catalog()
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	pagesObj, found := rootDict.Find("Pages")
	if !found {
		return fmt.Errorf("catalog has no page tree")
	}

	if err := d.walkPageTree(pagesObj, 0); err != nil {
		return err
	}
	if len(d.pageDicts) == 0 {
		return fmt.Errorf("page tree contains no pages")
	}
	return nil
}

// maxPageTreeDepth bounds recursion on damaged trees with reference cycles.
const maxPageTreeDepth = 64

func (d *Document) walkPageTree(obj types.Object, depth int) error {
	if depth > maxPageTreeDepth {
		return fmt.Errorf("page tree exceeds depth %d", maxPageTreeDepth)
	}

	nodeDict, err := d.ctx.DereferenceDict(obj)
	if err != nil {
		return fmt.Errorf("dereference page tree node: %w", err)
	}
	if nodeDict == nil {
		return nil
	}

	if typ := nodeDict.Type(); typ != nil && *typ == "Page" {
		d.pageDicts = append(d.pageDicts, nodeDict)
		return nil
	}

	kidsObj, found := nodeDict.Find("Kids")
	if !found {
		return nil
	}
	kids, err := d.ctx.DereferenceArray(kidsObj)
	if err != nil {
		return fmt.Errorf("dereference Kids: %w", err)
	}
	for _, kid := range kids {
		if err := d.walkPageTree(kid, depth+1); err != nil {
			return err
		}
	}
	return nil
}
