package preflight

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// Access selects the permissions a directory check requires.
type Access uint32

const (
	Readable Access = unix.R_OK | unix.X_OK
	Writable Access = unix.R_OK | unix.W_OK | unix.X_OK
)

func (a Access) String() string {
	if a&unix.W_OK != 0 {
		return "read/write"
	}
	return "read"
}

// CheckDirectoryAccess verifies that the directory exists with the given
// permissions.
func CheckDirectoryAccess(name, path string, access Access) Result {
	if strings.TrimSpace(path) == "" {
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

// CheckCreatable passes when path is a writable directory or could be
// created below its nearest existing ancestor.
func CheckCreatable(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path, Writable)
	}
	ancestor := filepath.Dir(path)
	for {
		if _, err := os.Stat(ancestor); err == nil {
			break
		}
		parent := filepath.Dir(ancestor)
		if parent == ancestor {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: no existing parent)", path)}
		}
		ancestor = parent
	}
	check := CheckDirectoryAccess(name, ancestor, Writable)
	if !check.Passed {
		return check
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckBaseURL verifies the media server address is an absolute http(s)
// URL.
func CheckBaseURL(raw string) Result {
	const name = "Media server"
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", raw, err)}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Result{Name: name, Detail: fmt.Sprintf("%q (error: expected http(s)://host/...)", raw)}
	}
	return Result{Name: name, Passed: true, Detail: u.String()}
}

// CheckFFprobe verifies that ffprobe runs. Without it open-ended samples
// fall back to their declared length, so the check is optional.
func CheckFFprobe(ctx context.Context, binary string, timeout time.Duration) Result {
	const name = "FFprobe"
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("binary %q not found", binary)}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	output, err := exec.CommandContext(checkCtx, resolved, "-version").Output()
	if err != nil {
		if errors.Is(checkCtx.Err(), context.DeadlineExceeded) {
			return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%s (error: timed out)", resolved)}
		}
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%s (error: %v)", resolved, err)}
	}
	version := strings.TrimSpace(strings.SplitN(string(output), "\n", 2)[0])
	if version == "" {
		version = resolved
	}
	return Result{Name: name, Passed: true, Optional: true, Detail: version}
}
