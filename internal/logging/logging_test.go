package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn", false)
	require.NoError(t, err)
	l.Info("hidden")
	l.WithField("anchor", "GENE1").Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "level=warning msg=shown anchor=GENE1")
}

func TestNew_Quiet(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "debug", true)
	require.NoError(t, err)
	assert.Equal(t, logrus.ErrorLevel, l.GetLevel())
	l.Warn("dropped")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, lvl)
	_, err = ParseLevel("loud")
	require.Error(t, err)
	_, err = New(&bytes.Buffer{}, "loud", false)
	require.Error(t, err)
}
