package pdf

// LinkType classifies what a link annotation points at. The classification
// happens once, when the annotation is ingested; downstream code switches on
// the tag instead of re-inspecting raw dictionaries.
type LinkType string

const (
	// LinkTypeURI is an external link carrying a literal URI string.
	LinkTypeURI LinkType = "uri"
	// LinkTypeInternal is a reference to a page or named destination
	// inside the same document.
	LinkTypeInternal LinkType = "internal"
	// LinkTypeOther covers link annotations with any other action kind,
	// including malformed ones missing both URI and destination.
	LinkTypeOther LinkType = "other"
)

// Rect is an annotation bounding rectangle in raw PDF page coordinates.
// The four values are passed through from the document unmodified.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// LinkRecord is the normalized representation of one link annotation.
type LinkRecord struct {
	URI        string   `json:"uri"`
	Text       string   `json:"text"`
	PageNumber int      `json:"page_number"`
	Type       LinkType `json:"link_type"`
	Position   Rect     `json:"position"`
}

// DocumentMetadata is a passthrough of the document's info dictionary.
// No semantics are added; absent entries stay empty.
type DocumentMetadata struct {
	Title            string `json:"title,omitempty"`
	Author           string `json:"author,omitempty"`
	Subject          string `json:"subject,omitempty"`
	Creator          string `json:"creator,omitempty"`
	Producer         string `json:"producer,omitempty"`
	Keywords         string `json:"keywords,omitempty"`
	CreationDate     string `json:"creation_date,omitempty"`
	ModificationDate string `json:"modification_date,omitempty"`
	Encrypted        bool   `json:"encrypted"`
}

// ExtractionResult aggregates everything extracted from one document.
// Links are ordered by page number ascending, then by the in-page
// annotation order the document stores them in.
type ExtractionResult struct {
	Path      string           `json:"path"`
	Pages     int              `json:"pages"`
	PageTexts []string         `json:"page_texts"`
	Text      string           `json:"text"`
	Links     []LinkRecord     `json:"links"`
	Metadata  DocumentMetadata `json:"metadata"`
}

// FileInfo describes a PDF file found during directory search.
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// ExtractRequest asks for a full text+link extraction of one file.
// Password is optional and only consulted for encrypted documents.
type ExtractRequest struct {
	Path     string `json:"path"`
	Password string `json:"password,omitempty"`
}

// ValidateFileRequest asks whether a file is a readable PDF.
type ValidateFileRequest struct {
	Path string `json:"path"`
}

// SearchDirectoryRequest asks for PDF files in a directory, optionally
// filtered by a fuzzy filename query.
type SearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// Response Types

// ValidateFileResult reports the outcome of a validation request.
type ValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// SearchDirectoryResult lists the PDF files matching a search request.
type SearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}
