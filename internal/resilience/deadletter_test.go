package resilience

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeadLetterWriter_JSONLines(t *testing.T) {
	var buf bytes.Buffer
	w := NewDeadLetterWriter(&buf)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, w.Write(DeadLetter{LineNo: 3, Line: "bad | line", Error: "malformed", ErrorType: "rejected", Table: "Raw", FailedAt: at}))
	require.NoError(t, w.Write(DeadLetter{LineNo: 7, Line: "[A](u) | x | y", Error: "503", ErrorType: ClassTransient, Table: "Raw"}))
	assert.Equal(t, 2, w.Count())

	sc := bufio.NewScanner(&buf)
	var got []DeadLetter
	for sc.Scan() {
		var e DeadLetter
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		got = append(got, e)
	}
	require.Len(t, got, 2)
	assert.Equal(t, "bad | line", got[0].Line)
	assert.Equal(t, at, got[0].FailedAt)
	assert.Equal(t, 7, got[1].LineNo)
	assert.False(t, got[1].FailedAt.IsZero())
}

func TestDeadLetterWriter_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	w := NewDeadLetterWriter(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, w.Write(DeadLetter{LineNo: i, Line: "x"}))
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, w.Count())
	assert.Equal(t, 20, bytes.Count(buf.Bytes(), []byte("\n")))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestDeadLetterWriter_WriteError(t *testing.T) {
	w := NewDeadLetterWriter(failingWriter{})

	err := w.Write(DeadLetter{Line: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resilience: write dead letter")
	assert.Equal(t, 0, w.Count())
}
