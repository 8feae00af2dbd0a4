package assert

import "github.com/oomph-ac/locomotion/oerror"

// IsTrue panics with a formatted error if ok is false. It guards invariants whose
// violation is a programming error, never a runtime condition.
func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}
