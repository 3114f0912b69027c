//go:build windows

package logging

// log/syslog does not exist on Windows; stdout/stderr is all there is.
func newSysLogger(tag string) (Logger, error) {
	_ = tag
	return nil, nil
}
