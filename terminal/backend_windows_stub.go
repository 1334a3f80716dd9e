//go:build !windows

package terminal

import "github.com/sirupsen/logrus"

func newWindowsConsole(Config, chan<- SystemEvent, logrus.FieldLogger) (Backend, error) {
	return nil, newError(Unsupported, "windows console backend requires windows", nil)
}
