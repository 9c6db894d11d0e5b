package memory

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocAndFree(t *testing.T) {
	a := New(100)
	b1, err := a.Alloc(40)
	require.NoError(t, err)
	b2, err := a.Alloc(60)
	require.NoError(t, err)
	assert.NotEqual(t, b1.ID, b2.ID)

	s := a.Stats()
	assert.Equal(t, 100, s.Allocated)
	assert.Equal(t, 100, s.Peak)
	assert.Equal(t, 2, s.Allocs)

	require.NoError(t, a.Free(b1))
	s = a.Stats()
	assert.Equal(t, 60, s.Allocated)
	assert.Equal(t, 100, s.Peak)
	assert.Equal(t, 1, s.Frees)
	assert.Equal(t, []Block{b2}, a.Leaks())
}

func TestRecoverableErrors(t *testing.T) {
	a := New(10)

	_, err := a.Alloc(0)
	assert.True(t, errors.Is(err, ErrZeroSize))

	b, err := a.Alloc(8)
	require.NoError(t, err)

	_, err = a.Alloc(3)
	assert.True(t, errors.Is(err, ErrQuotaExceeded))
	assert.Contains(t, err.Error(), "2 of 10 available")
	assert.Equal(t, 8, a.Stats().Allocated, "a failed allocation changes nothing")

	require.NoError(t, a.Free(b))
	err = a.Free(b)
	assert.True(t, errors.Is(err, ErrUntracked))
	assert.Equal(t, ErrUntracked, errors.Cause(err))
}

func TestRealloc(t *testing.T) {
	a := New(16)

	b, err := a.Realloc(Block{}, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, b.Size)

	b, err = a.Realloc(b, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, a.Stats().Allocated)

	same, err := a.Realloc(b, 20)
	assert.True(t, errors.Is(err, ErrQuotaExceeded))
	assert.Equal(t, b, same)
	assert.Equal(t, 12, a.Stats().Allocated)

	b, err = a.Realloc(b, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Stats().Allocated)
	assert.Equal(t, 12, a.Stats().Peak)

	_, err = a.Realloc(b, 0)
	require.NoError(t, err)
	assert.Empty(t, a.Leaks())

	_, err = a.Realloc(b, 4)
	assert.True(t, errors.Is(err, ErrUntracked))
}

func TestDefaultLimit(t *testing.T) {
	assert.Equal(t, 2048*1024, New(0).Stats().Limit)
}

func TestHighUsageWarning(t *testing.T) {
	var logs bytes.Buffer
	a := New(100)
	a.Log = zerolog.New(&logs)

	_, err := a.Alloc(50)
	require.NoError(t, err)
	assert.Empty(t, logs.String())

	_, err = a.Alloc(40)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "memory usage high: 90.0%")
}

func TestReport(t *testing.T) {
	a := New(1024)
	_, err := a.Alloc(512)
	require.NoError(t, err)

	var buf bytes.Buffer
	a.Report(&buf)
	assert.Contains(t, buf.String(), "allocated:   512 bytes (0.50 KB)")
	assert.Contains(t, buf.String(), "usage:       50.0%")
	assert.Contains(t, buf.String(), "leaks:       1 blocks, 512 bytes")

	require.NoError(t, a.Free(a.Leaks()[0]))
	buf.Reset()
	a.Report(&buf)
	assert.Contains(t, buf.String(), "no leaks detected")
}
