//go:build !linux

package sim

// ListProcesses is unsupported off linux; sequences must come from the
// manual or generated sources instead.
func ListProcesses() ([]ProcessInfo, error) {
	return nil, ErrUnsupportedPlatform("ListProcesses")
}

// FindProcess is unsupported off linux.
func FindProcess(pid int) (ProcessInfo, error) {
	return ProcessInfo{}, ErrUnsupportedPlatform("FindProcess")
}

// SystemMemoryMB is unsupported off linux.
func SystemMemoryMB() (float64, error) {
	return 0, ErrUnsupportedPlatform("SystemMemoryMB")
}
