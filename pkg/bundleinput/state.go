// SPDX-License-Identifier: MPL-2.0

package bundleinput

// State is the lifecycle position of an archive source.
type State int

const (
	// StateUnopened is the zero value; the archive file is not open yet.
	StateUnopened State = iota
	// StateHashing means the content hash is being computed.
	StateHashing
	// StateReady means the hash is known and no entry has been pulled.
	StateReady
	// StateIterating means the single enumeration pass is in progress.
	StateIterating
	// StateExhausted means every entry was decoded.
	StateExhausted
	// StateFailed means the archive framing could not be decoded.
	StateFailed
	// StateClosed means the source was released before reaching the end of
	// the archive, by Close or by abandoning the sequence.
	StateClosed
)

var stateNames = [...]string{
	StateUnopened:  "unopened",
	StateHashing:   "hashing",
	StateReady:     "ready",
	StateIterating: "iterating",
	StateExhausted: "exhausted",
	StateFailed:    "failed",
	StateClosed:    "closed",
}

// String returns a lowercase name for the state.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// done reports whether the pass has ended for any reason.
func (s State) done() bool {
	return s == StateExhausted || s == StateFailed || s == StateClosed
}
