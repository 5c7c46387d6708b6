package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Access selects which permissions CheckDirectoryAccess requires.
type Access uint32

const (
	// AccessRead requires the directory to be listable.
	AccessRead Access = unix.R_OK | unix.X_OK
	// AccessWrite requires new entries to be creatable in the directory.
	AccessWrite Access = unix.W_OK | unix.X_OK
)

func (a Access) String() string {
	switch a {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	default:
		return "read/write"
	}
}

// CheckDirectoryAccess verifies that path is an existing directory with the
// requested access for the current user.
func CheckDirectoryAccess(name, path string, access Access) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, uint32(access)); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s ok)", path, access)}
}
