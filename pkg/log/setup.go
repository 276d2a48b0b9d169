package log

import "io"

// Setup installs the global logger for a binary. Logs go to file when set,
// otherwise to w. The returned func closes the file.
func Setup(level, file string, w io.Writer) (func() error, error) {
	lvl := ParseLevel(level)
	if file == "" {
		SetLogger(NewLoggerTo(w, lvl))
		return func() error { return nil }, nil
	}

	fileLogger, err := NewFileLogger(file, lvl)
	if err != nil {
		return nil, err
	}
	SetLogger(fileLogger.Logger)
	return fileLogger.Close, nil
}
