package proc

// replaceStrategy substitutes the current process with the target process,
// either truly (Unix exec) or by emulation. The active strategy is selected
// at build time; see replace_unix.go and replace_windows.go.
type replaceStrategy interface {
	replace(p *ProcessBuilder) error
}
