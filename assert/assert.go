package assert

import "github.com/oomph-ac/ricochet/oerror"

// IsTrue panics with a formatted *oerror.Error when ok is false. It is used for preconditions whose
// violation is a programming error rather than a runtime condition.
func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}
