//go:build !unix

package terminal

import "github.com/sirupsen/logrus"

func newTermios(Config, chan<- SystemEvent, logrus.FieldLogger) (Backend, error) {
	return nil, newError(Unsupported, "termios backend requires a unix system", nil)
}
