package layer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/pawd/layer"
	"github.com/Alia5/pawd/motion"
)

var (
	_ motion.LayerProvider = (*layer.Control)(nil)
	_ motion.LayerProvider = (*layer.File)(nil)
)

func TestControl(t *testing.T) {
	c := layer.NewControl(2)
	assert.Equal(t, 2, c.HighestActiveLayer())
	c.Set(5)
	assert.Equal(t, 5, c.HighestActiveLayer())
}

func TestFileInitialValue(t *testing.T) {
	p := filepath.Join(t.TempDir(), "layer")
	require.NoError(t, os.WriteFile(p, []byte("3\n"), 0o644))

	f := layer.NewFile(p, nil)
	assert.Equal(t, 3, f.HighestActiveLayer())
}

func TestFileMissing(t *testing.T) {
	f := layer.NewFile(filepath.Join(t.TempDir(), "absent"), nil)
	assert.Equal(t, 0, f.HighestActiveLayer())
}

func TestFileWatch(t *testing.T) {
	p := filepath.Join(t.TempDir(), "layer")
	require.NoError(t, os.WriteFile(p, []byte("1"), 0o644))
	f := layer.NewFile(p, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	require.Eventually(t, func() bool {
		_ = os.WriteFile(p, []byte("4"), 0o644)
		return f.HighestActiveLayer() == 4
	}, 2*time.Second, 20*time.Millisecond)

	// garbage keeps the previous value
	require.NoError(t, os.WriteFile(p, []byte("nope"), 0o644))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 4, f.HighestActiveLayer())

	tmp := p + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte("7"), 0o644))
	require.NoError(t, os.Rename(tmp, p))
	require.Eventually(t, func() bool { return f.HighestActiveLayer() == 7 }, 2*time.Second, 20*time.Millisecond)
}
