// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreRootHandler(t *testing.T) {
	t.Cleanup(func() {
		var lvl slog.LevelVar
		lvl.Set(LevelInfo)
		SetRootHandler(NewTerminalHandlerWithLevel(os.Stderr, &lvl, false))
	})
}

func TestChildFollowsRootHandlerSwap(t *testing.T) {
	restoreRootHandler(t)

	// the child exists before the handler swap, like every package-level logger
	child := WithContext("pkg", "test")

	var buf bytes.Buffer
	SetRootHandler(NewTerminalHandler(&buf, false))

	child.Debug("hello", "k", "v")
	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "pkg=test")
	assert.Contains(t, out, "k=v")
}

func TestRootHandlerLevel(t *testing.T) {
	restoreRootHandler(t)

	var (
		buf bytes.Buffer
		lvl slog.LevelVar
	)
	lvl.Set(LevelInfo)
	SetRootHandler(NewTerminalHandlerWithLevel(&buf, &lvl, false))

	logger := WithContext("pkg", "test")
	logger.Debug("quiet")
	assert.Empty(t, buf.String())

	lvl.Set(LevelTrace)
	logger.Debug("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestWithAccumulatesContext(t *testing.T) {
	restoreRootHandler(t)

	var buf bytes.Buffer
	SetRootHandler(NewTerminalHandler(&buf, false))

	parent := WithContext("a", 1)
	child := parent.With("b", 2)

	child.Info("both")
	out := buf.String()
	assert.Contains(t, out, "a=1")
	assert.Contains(t, out, "b=2")

	// the parent did not pick up the child's context
	buf.Reset()
	parent.Info("one")
	out = buf.String()
	assert.Contains(t, out, "a=1")
	assert.NotContains(t, out, "b=2")
}
