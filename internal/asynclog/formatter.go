package asynclog

import "fmt"

// formatter renders a log line's variadic payload into text. It mirrors the
// original design's ISystemStrOps::vasprintf seam: production binds Sprintf,
// tests can bind a fake that reports a formatting failure without needing an
// actually-malformed format string.
type formatter interface {
	format(format string, args ...any) (string, error)
}

type sprintfFormatter struct{}

func (sprintfFormatter) format(format string, args ...any) (string, error) {
	return fmt.Sprintf(format, args...), nil
}

// failFormatter always reports a formatting error. Test-only.
type failFormatter struct{}

func (failFormatter) format(string, ...any) (string, error) {
	return "", fmt.Errorf("asynclog: format failed")
}
