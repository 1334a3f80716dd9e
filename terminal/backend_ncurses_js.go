//go:build js

package terminal

import "github.com/sirupsen/logrus"

func newNcurses(Config, chan<- SystemEvent, logrus.FieldLogger) (Backend, error) {
	return nil, newError(Unsupported, "ncurses backend is not available in the browser", nil)
}
