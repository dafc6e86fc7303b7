package helpers

import (
	"strings"

	"github.com/juju/errors"
)

// Errors is a list of independent validation failures, one per line in Error().
type Errors []error

func (self Errors) Error() string {
	ss := make([]string, len(self))
	for i, e := range self {
		ss[i] = e.Error()
	}
	return strings.Join(ss, "\n")
}

// FoldErrors drops nil entries, returns nil when none left.
// errors.Cause of result is Errors.
func FoldErrors(errs []error) error {
	nonNil := make(Errors, 0, len(errs))
	for _, e := range errs {
		if e != nil {
			nonNil = append(nonNil, e)
		}
	}
	if len(nonNil) == 0 {
		return nil
	}
	return errors.Trace(nonNil)
}
