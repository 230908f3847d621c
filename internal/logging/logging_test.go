package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("warn", &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())

	l.WithField("path", "/A").Info("hidden")
	l.WithField("path", "/B").Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "path=/B")

	l, err = New("", &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())

	_, err = New("loud", &buf)
	require.Error(t, err)
}

func TestDiscard(t *testing.T) {
	l := Discard()
	assert.False(t, l.IsLevelEnabled(logrus.ErrorLevel))
}
