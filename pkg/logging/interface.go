package logging

import "fmt"

// Interface is the logger handed to components. It keeps component code free
// of a concrete logging library; the binary backs it with zap.
type Interface interface {
	WithField(key string, value interface{}) Interface
	WithError(err error) Interface

	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)

	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

func fmtMsg(format string, args []interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

type discard struct{}

func (d discard) WithField(string, interface{}) Interface { return d }
func (d discard) WithError(error) Interface               { return d }
func (d discard) Debug(string)                            {}
func (d discard) Info(string)                             {}
func (d discard) Warn(string)                             {}
func (d discard) Error(string)                            {}
func (d discard) Debugf(string, ...interface{})           {}
func (d discard) Infof(string, ...interface{})            {}
func (d discard) Warnf(string, ...interface{})            {}
func (d discard) Errorf(string, ...interface{})           {}

// Discard returns a logger that drops every message.
func Discard() Interface {
	return discard{}
}
