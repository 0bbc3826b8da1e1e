package fsquery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "codeprobe/internal/errors"
)

// bodyLines strips the header and line-number prefixes from a read result.
func bodyLines(t *testing.T, out string) []string {
	t.Helper()
	if strings.HasPrefix(out, EmptyReadPrefix) {
		return nil
	}
	rows := strings.Split(out, "\n")
	require.True(t, strings.HasPrefix(rows[0], "File: "), "missing header in %q", out)
	lines := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		parts := strings.SplitN(row, "\t", 2)
		require.Len(t, parts, 2, "malformed row %q", row)
		lines = append(lines, parts[1])
	}
	return lines
}

func TestReadThreeLineFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	writeFile(t, path, "one\ntwo\nthree\n")
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
	setModTime(t, path, ts)

	out, err := Read(context.Background(), path, 1, 2000)
	require.NoError(t, err)

	want := "File: f.txt (14 bytes, modified: 2024-01-02 03:04:05)\n" +
		"     1\tone\n" +
		"     2\ttwo\n" +
		"     3\tthree"
	assert.Equal(t, want, out)
}

func TestReadNormalizesOffsetAndLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	writeFile(t, path, "a\nb\n")

	defaults, err := Read(context.Background(), path, 1, 2000)
	require.NoError(t, err)
	for _, window := range [][2]int{{0, 0}, {-3, -1}} {
		out, err := Read(context.Background(), path, window[0], window[1])
		require.NoError(t, err)
		assert.Equal(t, defaults, out)
	}
}

func TestReadWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	writeFile(t, path, "one\ntwo\nthree\nfour")

	out, err := Read(context.Background(), path, 2, 2)
	require.NoError(t, err)
	rows := strings.Split(out, "\n")
	require.Len(t, rows, 3)
	assert.Equal(t, "     2\ttwo", rows[1])
	assert.Equal(t, "     3\tthree", rows[2])

	out, err = Read(context.Background(), path, 4, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"four"}, bodyLines(t, out))
}

func TestReadEmptyWindowSentinel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "short.txt")
	writeFile(t, path, "only\n")

	out, err := Read(context.Background(), path, 5, 10)
	require.NoError(t, err)
	assert.Equal(t, "file is empty: "+path, out)

	empty := filepath.Join(dir, "empty.txt")
	writeFile(t, empty, "")
	out, err = Read(context.Background(), empty, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "file is empty: "+empty, out)
}

func TestReadCleansLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.txt")
	writeFile(t, path, "crlf\r\nbad\xffbyte\n\nlast")

	out, err := Read(context.Background(), path, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"crlf", "badbyte", "", "last"}, bodyLines(t, out))
}

func TestReadLineNumberWidth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.txt")
	writeFile(t, path, strings.Repeat("x\n", 100000))

	out, err := Read(context.Background(), path, 99999, 5)
	require.NoError(t, err)
	rows := strings.Split(out, "\n")
	require.Len(t, rows, 3)
	assert.Equal(t, " 99999\tx", rows[1])
	assert.Equal(t, "100000\tx", rows[2])
}

func TestReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.txt")
	raw := make([]string, 25)
	for i := range raw {
		raw[i] = fmt.Sprintf("line %02d\twith tab", i+1)
	}
	writeFile(t, path, strings.Join(raw, "\n")+"\n")

	for _, n := range []int{1, 3, 10, 24, 25} {
		for _, m := range []int{1, 2, 7, 30} {
			first, err := Read(context.Background(), path, 1, n)
			require.NoError(t, err)
			second, err := Read(context.Background(), path, n+1, m)
			require.NoError(t, err)

			got := append(bodyLines(t, first), bodyLines(t, second)...)
			end := n + m
			if end > len(raw) {
				end = len(raw)
			}
			assert.Equal(t, raw[:end], got, "n=%d m=%d", n, m)
		}
	}
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Read(context.Background(), "relative.txt", 1, 10)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument), "got %v", err)

	_, err = Read(context.Background(), filepath.Join(dir, "missing.txt"), 1, 10)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "got %v", err)

	_, err = Read(context.Background(), dir, 1, 10)
	assert.True(t, errors.Is(err, apperrors.ErrIsADirectory), "got %v", err)
}

func TestReadUnreadableFile(t *testing.T) {
	skipIfPermissionsIgnored(t)
	path := filepath.Join(t.TempDir(), "locked.txt")
	writeFile(t, path, "secret\n")
	require.NoError(t, os.Chmod(path, 0o000))
	t.Cleanup(func() { _ = os.Chmod(path, 0o644) })

	_, err := Read(context.Background(), path, 1, 10)
	assert.True(t, errors.Is(err, apperrors.ErrIOFailure), "got %v", err)
}
