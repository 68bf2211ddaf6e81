package pdf

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// OpenKind identifies why a document failed to open.
type OpenKind string

const (
	// OpenNotFound means the path does not reference a readable file.
	OpenNotFound OpenKind = "not_found"
	// OpenBadPassword means the document is encrypted and the supplied
	// password was absent or incorrect.
	OpenBadPassword OpenKind = "bad_password"
	// OpenCorrupt means the parser could not make sense of the file
	// structure.
	OpenCorrupt OpenKind = "corrupt"
)

// OpenError is the single fatal error a document open can produce. A failed
// open yields no partial result; callers inspect Kind to map the failure to
// their own surface (exit code, HTTP status, tool error).
type OpenError struct {
	Kind OpenKind
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// AsOpenError unwraps err into an *OpenError if there is one in the chain.
func AsOpenError(err error) (*OpenError, bool) {
	var oe *OpenError
	if errors.As(err, &oe) {
		return oe, true
	}
	return nil, false
}

// classifyOpenError maps a library-level open failure onto the error
// taxonomy. Stat errors decide NotFound before the parser ever runs;
// everything the parser rejects on an encrypted file is a password problem,
// the rest is corruption.
func classifyOpenError(path string, err error) *OpenError {
	switch {
	case os.IsNotExist(err):
		return &OpenError{Kind: OpenNotFound, Path: path, Err: err}
	case isPasswordError(err):
		return &OpenError{Kind: OpenBadPassword, Path: path, Err: err}
	default:
		return &OpenError{Kind: OpenCorrupt, Path: path, Err: err}
	}
}

// isPasswordError recognizes pdfcpu's password failures without tying the
// caller to a specific sentinel value across library versions.
func isPasswordError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password") || strings.Contains(msg, "decrypt")
}
