//go:build linux

package readiness

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// openForWriting reports whether any process visible under /proc holds path
// open with write access. Processes whose fd tables cannot be read (other
// users without CAP_SYS_PTRACE) are skipped.
func openForWriting(path string) bool {
	var target unix.Stat_t
	if err := unix.Stat(path, &target); err != nil {
		return false
	}

	procs, err := os.ReadDir("/proc")
	if err != nil {
		return false
	}
	for _, proc := range procs {
		if !proc.IsDir() || !isPID(proc.Name()) {
			continue
		}
		fdDir := filepath.Join("/proc", proc.Name(), "fd")
		fds, err := os.ReadDir(fdDir)
		if err != nil {
			continue
		}
		for _, fd := range fds {
			var st unix.Stat_t
			if err := unix.Stat(filepath.Join(fdDir, fd.Name()), &st); err != nil {
				continue
			}
			if st.Dev != target.Dev || st.Ino != target.Ino {
				continue
			}
			if fdWritable(filepath.Join("/proc", proc.Name(), "fdinfo", fd.Name())) {
				return true
			}
		}
	}
	return false
}

func isPID(name string) bool {
	_, err := strconv.Atoi(name)
	return err == nil
}

// fdWritable parses the octal "flags:" line of a /proc fdinfo entry.
func fdWritable(fdinfo string) bool {
	file, err := os.Open(fdinfo)
	if err != nil {
		return false
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		value, ok := strings.CutPrefix(scanner.Text(), "flags:")
		if !ok {
			continue
		}
		flags, err := strconv.ParseInt(strings.TrimSpace(value), 8, 64)
		if err != nil {
			return false
		}
		mode := int(flags) & unix.O_ACCMODE
		return mode == unix.O_WRONLY || mode == unix.O_RDWR
	}
	return false
}
