package tui

import (
	"github.com/sanity-io/litter"
	"github.com/sirupsen/logrus"
)

// debug dumps v in the log file when the debug level is enabled.
func debug(log logrus.FieldLogger, message string, v any) {
	if l, ok := log.(*logrus.Logger); ok && !l.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	log.Debugf("%s: %s", message, litter.Sdump(v))
}
