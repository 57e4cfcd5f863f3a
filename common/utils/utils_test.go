package utils

import (
	"bufio"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestWaitTimeout(t *testing.T) {
	t.Run("completes before the timeout", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			time.Sleep(5 * time.Millisecond)
		}()

		assert.True(t, WaitTimeout(&wg, time.Second))
	})

	t.Run("times out", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)
		defer wg.Done()

		assert.False(t, WaitTimeout(&wg, 10*time.Millisecond))
	})
}

func TestCheck(t *testing.T) {
	assert.NotPanics(t, func() { Check(nil, "nothing to report") })
	assert.Panics(t, func() { Check(errors.New("boom"), "should panic") })
}

func TestDebugUsesLogFn(t *testing.T) {
	var got []string

	prev := LogFn
	LogFn = func(service, message string) {
		got = append(got, service+": "+message)
	}
	defer func() { LogFn = prev }()

	Debug("optimizer", "segment 0 solved")

	assert.Equal(t, []string{"optimizer: segment 0 solved"}, got)
}

func TestReadFullLine(t *testing.T) {
	long := strings.Repeat("x", 100)
	r := bufio.NewReaderSize(strings.NewReader(long+"\n\nshort"), 16)

	line, err := ReadFullLine(r)
	assert.Nil(t, err)
	assert.Equal(t, long, line)

	line, err = ReadFullLine(r)
	assert.Nil(t, err)
	assert.Equal(t, "", line)

	line, err = ReadFullLine(r)
	assert.Nil(t, err)
	assert.Equal(t, "short", line)

	_, err = ReadFullLine(r)
	assert.Equal(t, io.EOF, err)
}
