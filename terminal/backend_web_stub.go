//go:build !(js && wasm)

package terminal

import "github.com/sirupsen/logrus"

func newWebTerminal(Config, chan<- SystemEvent, logrus.FieldLogger) (Backend, error) {
	return nil, newError(Unsupported, "web terminal backend requires js/wasm", nil)
}
