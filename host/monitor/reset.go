package monitor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/golang/glog"
	"github.com/google/shlex"
)

// SplitCommand splits a command line with shell quoting rules
func SplitCommand(cmdline string) ([]string, error) {
	argv, err := shlex.Split(cmdline)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", cmdline, err)
	}
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}
	return argv, nil
}

// RunResetCommand runs the command that resets the board, e.g.
// `esptool.py --chip esp32s3 --port /dev/ttyUSB0 run`
func RunResetCommand(ctx context.Context, cmdline string) error {
	argv, err := SplitCommand(cmdline)
	if err != nil {
		return err
	}

	glog.V(1).Infof("reset: %s", strings.Join(argv, " "))
	out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("reset command %s: %w: %s", argv[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}
