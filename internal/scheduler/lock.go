package scheduler

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/metaflow/internal/constants"
	"github.com/julianstephens/metaflow/internal/errors"
	"github.com/julianstephens/metaflow/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	currentPID      = os.Getpid

	ErrAlreadyRunning = errors.New("another metaflow watch process is running")
)

// Lock is a PID lockfile guarding a data directory against a second watcher.
// The file holds "<pid>|<executable>".
type Lock struct {
	path string
	pid  int
}

func executableName() string {
	return filepath.Base(os.Args[0])
}

// holder reports the live process recorded in the lockfile, if any
func holder(path string) (int, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		logger.Warn("Ignoring malformed lockfile", "path", path)
		return 0, false
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		logger.Warn("Ignoring lockfile with invalid PID", "path", path)
		return 0, false
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return 0, false
	}
	// process names may be truncated by the OS
	exe, recorded := process.Executable(), parts[1]
	if exe == "" || !(strings.HasPrefix(recorded, exe) || strings.HasPrefix(exe, recorded)) {
		return 0, false
	}
	return pid, true
}

// AcquireLock takes the watch lock in dir. A lockfile left by a dead process is replaced.
func AcquireLock(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := filepath.Join(dir, constants.LockfileName)

	pid := currentPID()
	if other, alive := holder(path); alive && other != pid {
		return nil, fmt.Errorf("%w (pid %d, lockfile %s)", ErrAlreadyRunning, other, path)
	}

	content := fmt.Sprintf("%d|%s", pid, executableName())
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	logger.Debug("Acquired watch lock", "path", path, "pid", pid)
	return &Lock{path: path, pid: pid}, nil
}

func (l *Lock) Path() string { return l.path }

// Release removes the lockfile if it still belongs to this process.
func (l *Lock) Release() error {
	content, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !strings.HasPrefix(string(content), strconv.Itoa(l.pid)+"|") {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}
