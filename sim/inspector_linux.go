//go:build linux

package sim

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// ListProcesses scans /proc and returns the running processes sorted by
// resident memory, largest first. Processes under 1 MB and entries that
// disappear mid-scan are skipped.
func ListProcesses() ([]ProcessInfo, error) {
	const op = "ListProcesses"

	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, NewSimError(ErrCodeInternal, op, "failed to read /proc", err)
	}

	pageSize := float64(unix.Getpagesize())

	var processes []ProcessInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}

		proc, err := readProcess(pid, pageSize)
		if err != nil {
			// Raced with process exit, or no permission; skip it.
			continue
		}
		if proc.MemoryMB < minProcessMemoryMB {
			continue
		}
		processes = append(processes, proc)
	}

	sortByMemory(processes)
	return processes, nil
}

// FindProcess returns the process with the given PID.
func FindProcess(pid int) (ProcessInfo, error) {
	const op = "FindProcess"

	proc, err := readProcess(pid, float64(unix.Getpagesize()))
	if err != nil {
		return ProcessInfo{}, ErrProcessNotFound(op, pid)
	}
	return proc, nil
}

// SystemMemoryMB returns total physical memory in megabytes.
func SystemMemoryMB() (float64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, NewSimError(ErrCodeInternal, "SystemMemoryMB", "sysinfo failed", err)
	}
	return float64(info.Totalram) * float64(info.Unit) / (1024 * 1024), nil
}

// readProcess reads name and resident set size for one PID.
// /proc/<pid>/statm reports sizes in pages; the second field is RSS.
func readProcess(pid int, pageSize float64) (ProcessInfo, error) {
	procDir := filepath.Join("/proc", strconv.Itoa(pid))

	comm, err := os.ReadFile(filepath.Join(procDir, "comm"))
	if err != nil {
		return ProcessInfo{}, err
	}

	statm, err := os.ReadFile(filepath.Join(procDir, "statm"))
	if err != nil {
		return ProcessInfo{}, err
	}

	fields := strings.Fields(string(statm))
	if len(fields) < 2 {
		return ProcessInfo{}, ErrProcessNotFound("readProcess", pid)
	}
	rssPages, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return ProcessInfo{}, err
	}

	return ProcessInfo{
		PID:      pid,
		Name:     strings.TrimSpace(string(comm)),
		MemoryMB: rssPages * pageSize / (1024 * 1024),
	}, nil
}
