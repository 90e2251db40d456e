package archive

import "go.trai.ch/skeleton/internal/core/domain"

const stubDiagnostic = `compile_error!("this file is a cargo-skeleton stub; build the real sources instead of the skeleton");`

// Stub returns the placeholder source written in place of a target of the given kind.
// Executable targets keep a main function so cargo still recognises them as binaries.
func Stub(kind domain.TargetKind) []byte {
	if kind == domain.TargetExecutable {
		return []byte("fn main() {}\n" + stubDiagnostic + "\n")
	}
	return []byte(stubDiagnostic + "\n")
}
