package logging_test

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devsecrets/internal/logging"
)

func TestNew_LevelAndOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := logging.New("warn", &buf)
	require.NoError(t, err)

	l.Info("hidden")
	l.WithFields(logrus.Fields{"counter": 3}).Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "counter=3")
}

func TestNew_BadLevel(t *testing.T) {
	_, err := logging.New("loud", &bytes.Buffer{})
	assert.Error(t, err)
}
