package utils

import "bufio"

// ReadFullLine reads one line whatever its length, without the line ending.
// Empty lines are returned as "" with a nil error.
func ReadFullLine(r *bufio.Reader) (string, error) {
	line, isPrefix, readErr := r.ReadLine()
	if readErr != nil {
		return "", readErr
	}

	if !isPrefix {
		return string(line), nil
	}

	buf := append([]byte(nil), line...)
	for isPrefix && readErr == nil {
		line, isPrefix, readErr = r.ReadLine()
		buf = append(buf, line...)
	}

	return string(buf), nil
}
