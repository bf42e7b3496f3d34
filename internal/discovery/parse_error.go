package discovery

import "fmt"

// ParseError reports a declaration file that does not conform to the
// recognized entity grammar. One malformed file never aborts discovery of the
// rest of the tree: the error is recorded as a diagnostic and the file is
// skipped.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}
