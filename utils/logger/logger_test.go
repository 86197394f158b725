package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stderr)

	t.Run("FormatsLevelAndMessage", func(t *testing.T) {
		buf.Reset()
		Infof("server running at %s", ":8000")

		output := buf.String()
		assert.Contains(t, output, "INFO")
		assert.Contains(t, output, "server running at :8000")
	})

	t.Run("FieldsAppended", func(t *testing.T) {
		buf.Reset()
		WithFields(Fields{"SessionID": "abc"}).Warnf("dropped frame")

		output := buf.String()
		assert.Contains(t, output, "WARN")
		assert.Contains(t, output, "dropped frame")
		assert.Contains(t, output, "SessionID=abc")
	})

	t.Run("LevelFiltering", func(t *testing.T) {
		buf.Reset()
		SetLogLevel(logrus.WarnLevel)
		defer SetLogLevel(logrus.InfoLevel)

		Infof("too quiet")
		Warnf("loud enough")

		output := buf.String()
		assert.NotContains(t, output, "too quiet")
		assert.Contains(t, output, "loud enough")
	})
}
