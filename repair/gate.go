package repair

import (
	"fmt"
	"strings"
)

// CheckFunc parses data in some format and returns the parser's error.
type CheckFunc func(data []byte) error

// Gate runs check over data. A parse failure, or a panic inside the parser,
// comes back as a Diagnostic; Gate itself never fails.
func Gate(check CheckFunc, data []byte) (diag *Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			diag = &Diagnostic{
				Category: CategoryParse,
				Kind:     "panic",
				Message:  fmt.Sprint(r),
			}
		}
	}()

	if err := check(data); err != nil {
		return &Diagnostic{
			Category: CategoryParse,
			Kind:     ErrorKind(err),
			Message:  err.Error(),
		}
	}
	return nil
}

// ErrorKind names the concrete type of err, e.g. "xml.SyntaxError".
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
}
