package cmd

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// clockControl is the part of the clock that interactive commands drive.
type clockControl interface {
	Toggle() error
	SetSpeed(minutesPerSecond float64) error
}

// readControls applies one command per line from r until r is exhausted,
// ctx is done or the user quits:
//
//	p        pause or resume
//	s <mps>  set speed in simulated minutes per second
//	q        stop the run (calls quit)
//
// Bad commands are logged and skipped.
func readControls(ctx context.Context, c clockControl, r io.Reader, quit func()) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "p":
			if err := c.Toggle(); err != nil {
				logrus.Warnf("pause/resume: %v", err)
			}
		case "s":
			if len(fields) != 2 {
				logrus.Warnf("usage: s <minutes-per-second>")
				continue
			}
			mps, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				logrus.Warnf("invalid speed %q", fields[1])
				continue
			}
			if err := c.SetSpeed(mps); err != nil {
				logrus.Warnf("set speed: %v", err)
			}
		case "q":
			quit()
			return
		default:
			logrus.Warnf("unknown command %q", fields[0])
		}
	}
}
