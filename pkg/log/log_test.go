package log

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func sampleEvent(attemptID, networkID string, cat Category) Event {
	e := Event{
		Timestamp: time.Now().UTC(),
		AttemptID: attemptID,
		NetworkID: networkID,
		Category:  cat,
	}
	switch cat {
	case CategoryState:
		e.StateChange = &StateChangeEvent{OldState: "IDLE", NewState: "ASSOCIATING"}
	case CategoryProgress:
		e.Progress = &ProgressEvent{Percent: 42}
	case CategoryStore:
		e.Store = &StoreEvent{Op: StoreOpPut, Written: true}
	case CategoryError:
		e.Error = &ErrorEventData{Message: "boom", Context: "associate"}
	}
	return e
}

func TestEncodeDecodeEvent(t *testing.T) {
	event := sampleEvent("attempt-1", "HomeNet", CategoryState)

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent() error = %v", err)
	}

	got, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}

	if got.AttemptID != event.AttemptID {
		t.Errorf("AttemptID = %q, want %q", got.AttemptID, event.AttemptID)
	}
	if got.NetworkID != event.NetworkID {
		t.Errorf("NetworkID = %q, want %q", got.NetworkID, event.NetworkID)
	}
	if got.Category != CategoryState {
		t.Errorf("Category = %v, want CategoryState", got.Category)
	}
	if got.StateChange == nil || got.StateChange.NewState != "ASSOCIATING" {
		t.Errorf("StateChange = %+v, want NewState ASSOCIATING", got.StateChange)
	}
	if !got.Timestamp.Equal(event.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, event.Timestamp)
	}
}

func TestFileLoggerAndReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wifiman.wlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	logger.Log(sampleEvent("a1", "HomeNet", CategoryState))
	logger.Log(sampleEvent("a1", "HomeNet", CategoryProgress))
	logger.Log(sampleEvent("a2", "CafeNet", CategoryError))

	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	// Double close and post-close logging must be harmless.
	if err := logger.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	logger.Log(sampleEvent("a3", "X", CategoryState))

	t.Run("ReadAll", func(t *testing.T) {
		r, err := NewReader(path)
		if err != nil {
			t.Fatalf("NewReader() error = %v", err)
		}
		defer r.Close()

		count := 0
		for {
			_, err := r.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("Next() error = %v", err)
			}
			count++
		}
		if count != 3 {
			t.Errorf("read %d events, want 3", count)
		}
	})

	t.Run("FilterByAttempt", func(t *testing.T) {
		r, err := NewFilteredReader(path, Filter{AttemptID: "a1"})
		if err != nil {
			t.Fatalf("NewFilteredReader() error = %v", err)
		}
		defer r.Close()

		count := 0
		for {
			e, err := r.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("Next() error = %v", err)
			}
			if e.AttemptID != "a1" {
				t.Errorf("AttemptID = %q, want a1", e.AttemptID)
			}
			count++
		}
		if count != 2 {
			t.Errorf("read %d events, want 2", count)
		}
	})

	t.Run("FilterByCategory", func(t *testing.T) {
		cat := CategoryError
		r, err := NewFilteredReader(path, Filter{Category: &cat})
		if err != nil {
			t.Fatalf("NewFilteredReader() error = %v", err)
		}
		defer r.Close()

		e, err := r.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if e.Error == nil || e.Error.Message != "boom" {
			t.Errorf("Error = %+v, want Message boom", e.Error)
		}
		if _, err := r.Next(); err != io.EOF {
			t.Errorf("Next() error = %v, want io.EOF", err)
		}
	})
}

func TestMultiLogger(t *testing.T) {
	var a, b countingLogger
	m := NewMultiLogger(&a, &b, NoopLogger{})

	m.Log(sampleEvent("a1", "HomeNet", CategoryStore))
	m.Log(sampleEvent("a1", "HomeNet", CategoryState))

	if a.count != 2 || b.count != 2 {
		t.Errorf("counts = %d/%d, want 2/2", a.count, b.count)
	}
}

type countingLogger struct {
	count int
}

func (l *countingLogger) Log(Event) { l.count++ }

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	sl := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	adapter := NewSlogAdapter(sl)

	adapter.Log(sampleEvent("a1", "HomeNet", CategoryProgress))

	out := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte("percent=42")) {
		t.Errorf("slog output missing percent attr: %q", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte("network_id=HomeNet")) {
		t.Errorf("slog output missing network_id attr: %q", out)
	}
}

func TestCategoryString(t *testing.T) {
	cases := map[Category]string{
		CategoryState:    "STATE",
		CategoryProgress: "PROGRESS",
		CategoryStore:    "STORE",
		CategoryError:    "ERROR",
		Category(99):     "UNKNOWN",
	}
	for c, want := range cases {
		if got := c.String(); got != want {
			t.Errorf("Category(%d).String() = %q, want %q", c, got, want)
		}
	}
}

func TestStoreOpString(t *testing.T) {
	cases := map[StoreOp]string{
		StoreOpPut:    "PUT",
		StoreOpGet:    "GET",
		StoreOpRemove: "REMOVE",
		StoreOpDerive: "DERIVE",
		StoreOp(99):   "UNKNOWN",
	}
	for o, want := range cases {
		if got := o.String(); got != want {
			t.Errorf("StoreOp(%d).String() = %q, want %q", o, got, want)
		}
	}
}
