package contentapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/contentapi/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType          = "invalid_type"
	CodeRequired             = "required"
	CodeInvalidFormat        = "invalid_format"
	CodeDiscriminatorMissing = "discriminator_missing"
	CodeDiscriminatorUnknown = "discriminator_unknown"
	CodeUnsupportedValue     = "unsupported_value"
	CodeParseError           = "parse_error"
	CodeDuplicateKey         = "duplicate_key"
)

var (
	// ErrNotFound reports that the API has no resource with the requested id.
	ErrNotFound = errors.New("contentapi: not found")
	// ErrDecodeMismatch reports that a payload could not be mapped onto a
	// model variant: no codec claimed it, or a required field is absent or
	// malformed.
	ErrDecodeMismatch = errors.New("contentapi: decode mismatch")
	// ErrTransport reports a network or HTTP level failure.
	ErrTransport = errors.New("contentapi: transport failure")
)

// Issue represents a single decode/encode problem.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/authors/0/name).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: the offending variant tag, expected type, etc.
	Cause   error  // Optional: underlying error.
}

// Issues is a collection of decode errors that implements error. Every
// Issues value matches ErrDecodeMismatch under errors.Is.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. required at /items/0/title
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Hint != "" {
			fmt.Fprintf(b, " (%s)", it.Hint)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is makes Issues match ErrDecodeMismatch.
func (iss Issues) Is(target error) bool {
	return target == ErrDecodeMismatch
}

// Unwrap exposes the causes of the issues, if any.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// NewIssue builds a single-issue error with the catalog message for code.
func NewIssue(path, code, hint string) Issues {
	if path == "" {
		path = "/"
	}
	return Issues{{Path: path, Code: code, Message: i18n.T(code, nil), Hint: hint}}
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// PrefixIssues rewrites the paths of Issues found in err so they are rooted at
// prefix. Other errors are returned unchanged.
func PrefixIssues(prefix string, err error) error {
	iss, ok := AsIssues(err)
	if !ok || prefix == "" || prefix == "/" {
		return err
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		if it.Path == "/" {
			it.Path = prefix
		} else {
			it.Path = prefix + it.Path
		}
		out[i] = it
	}
	return out
}
