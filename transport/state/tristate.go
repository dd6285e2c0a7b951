package state

// TriState models the "tri-state expect-continue flag" / "tri-state WebDAV
// flag" the spec describes (§4.5): unknown until the first probe decides it,
// then latched true or false. The zero value is Unknown so a freshly zeroed
// map entry or atomic.Int32 behaves correctly without explicit init.
type TriState int32

const (
	Unknown TriState = iota
	False
	True
)

// Bool reports the tri-state as a plain bool plus whether it was known.
func (t TriState) Bool() (value bool, known bool) {
	switch t {
	case True:
		return true, true
	case False:
		return false, true
	default:
		return false, false
	}
}

// FromBool converts a plain bool into its tri-state representation.
func FromBool(b bool) TriState {
	if b {
		return True
	}
	return False
}
