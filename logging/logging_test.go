package logging

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := &Logger{
		info:  log.New(&out, "", 0),
		warn:  log.New(&out, "", 0),
		err:   log.New(&errOut, "", 0),
		debug: log.New(&out, "", 0),
	}

	l.Info("processed %d calls", 7)
	l.Warn("watch out")
	l.Debug("resolved %s", "acme")
	l.Error("boom")

	assert.Contains(t, out.String(), "INFO")
	assert.Contains(t, out.String(), "processed 7 calls")
	assert.Contains(t, out.String(), "WARN")
	assert.Contains(t, out.String(), "DEBUG")
	assert.Contains(t, out.String(), "resolved acme")
	assert.NotContains(t, out.String(), "ERROR")
	assert.Contains(t, errOut.String(), "ERROR")
	assert.Contains(t, errOut.String(), "boom")
}
