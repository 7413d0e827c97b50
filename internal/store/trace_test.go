package store

import (
	"errors"
	"io"
	"os"
	"testing"
	"time"
)

func sampleEntries(n int) []TraceEntry {
	entries := make([]TraceEntry, n)
	for i := range entries {
		entries[i] = TraceEntry{
			Generation:    i,
			BestFitness:   -1.0 / float64(i+1),
			MeanFitness:   -5.0 / float64(i+1),
			MeanDiversity: 10.0 - float64(i)*0.1,
			Timestamp:     time.Date(2026, 8, 20, 10, 0, i, 0, time.UTC),
		}
	}
	return entries
}

func TestTraceWriteAndRead(t *testing.T) {
	baseDir := t.TempDir()
	runID := "trace-run"
	entries := sampleEntries(5)

	tw, err := NewTraceWriter(baseDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}
	for _, entry := range entries {
		if err := tw.Write(entry); err != nil {
			t.Fatalf("Failed to write entry: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	tr, err := NewTraceReader(baseDir, runID)
	if err != nil {
		t.Fatalf("Failed to create trace reader: %v", err)
	}
	defer tr.Close()

	read, err := tr.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read entries: %v", err)
	}
	if len(read) != len(entries) {
		t.Fatalf("Expected %d entries, got %d", len(entries), len(read))
	}

	for i, entry := range entries {
		if read[i].Generation != entry.Generation {
			t.Errorf("Entry %d generation mismatch: expected %d, got %d", i, entry.Generation, read[i].Generation)
		}
		if read[i].BestFitness != entry.BestFitness {
			t.Errorf("Entry %d bestFitness mismatch: expected %f, got %f", i, entry.BestFitness, read[i].BestFitness)
		}
		if !read[i].Timestamp.Equal(entry.Timestamp) {
			t.Errorf("Entry %d timestamp mismatch", i)
		}
	}
}

func TestTraceReadSequential(t *testing.T) {
	baseDir := t.TempDir()
	runID := "trace-run"
	entries := sampleEntries(3)

	tw, err := NewTraceWriter(baseDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}
	for _, entry := range entries {
		if err := tw.Write(entry); err != nil {
			t.Fatalf("Failed to write entry: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	tr, err := NewTraceReader(baseDir, runID)
	if err != nil {
		t.Fatalf("Failed to create trace reader: %v", err)
	}
	defer tr.Close()

	for i := 0; i < len(entries); i++ {
		entry, err := tr.Read()
		if err != nil {
			t.Fatalf("Failed to read entry %d: %v", i, err)
		}
		if entry.Generation != i {
			t.Errorf("Expected generation %d, got %d", i, entry.Generation)
		}
	}

	if _, err := tr.Read(); err != io.EOF {
		t.Errorf("Expected io.EOF after last entry, got %v", err)
	}
}

func TestTraceFlushDurability(t *testing.T) {
	baseDir := t.TempDir()
	runID := "trace-run"

	tw, err := NewTraceWriter(baseDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}
	defer tw.Close()

	if err := tw.Write(sampleEntries(1)[0]); err != nil {
		t.Fatalf("Failed to write entry: %v", err)
	}
	if err := tw.Flush(); err != nil {
		t.Fatalf("Failed to flush: %v", err)
	}

	// Visible to a reader before the writer is closed.
	tr, err := NewTraceReader(baseDir, runID)
	if err != nil {
		t.Fatalf("Failed to create trace reader: %v", err)
	}
	defer tr.Close()

	read, err := tr.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read entries: %v", err)
	}
	if len(read) != 1 {
		t.Errorf("Expected 1 flushed entry, got %d", len(read))
	}
}

func TestTraceAppendMode(t *testing.T) {
	baseDir := t.TempDir()
	runID := "trace-run"
	entries := sampleEntries(4)

	tw, err := NewTraceWriter(baseDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}
	for _, entry := range entries[:2] {
		if err := tw.Write(entry); err != nil {
			t.Fatalf("Failed to write entry: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	tw, err = NewTraceWriter(baseDir, runID, true)
	if err != nil {
		t.Fatalf("Failed to reopen trace writer: %v", err)
	}
	for _, entry := range entries[2:] {
		if err := tw.Write(entry); err != nil {
			t.Fatalf("Failed to write entry: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	tr, err := NewTraceReader(baseDir, runID)
	if err != nil {
		t.Fatalf("Failed to create trace reader: %v", err)
	}
	defer tr.Close()

	read, err := tr.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read entries: %v", err)
	}
	if len(read) != 4 {
		t.Fatalf("Expected 4 entries after append, got %d", len(read))
	}
	for i, entry := range read {
		if entry.Generation != i {
			t.Errorf("Entry %d out of order: generation %d", i, entry.Generation)
		}
	}
}

func TestTraceTruncateMode(t *testing.T) {
	baseDir := t.TempDir()
	runID := "trace-run"

	tw, err := NewTraceWriter(baseDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}
	for _, entry := range sampleEntries(3) {
		if err := tw.Write(entry); err != nil {
			t.Fatalf("Failed to write entry: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	// Reopening without append mode starts a fresh trace.
	tw, err = NewTraceWriter(baseDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to reopen trace writer: %v", err)
	}
	if err := tw.Write(sampleEntries(1)[0]); err != nil {
		t.Fatalf("Failed to write entry: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	tr, err := NewTraceReader(baseDir, runID)
	if err != nil {
		t.Fatalf("Failed to create trace reader: %v", err)
	}
	defer tr.Close()

	read, err := tr.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read entries: %v", err)
	}
	if len(read) != 1 {
		t.Errorf("Expected 1 entry after truncate, got %d", len(read))
	}
}

func TestTraceReaderNotFound(t *testing.T) {
	_, err := NewTraceReader(t.TempDir(), "missing-run")
	if err == nil {
		t.Fatal("Expected error for missing trace")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTrace(t *testing.T) {
	baseDir := t.TempDir()
	runID := "trace-run"

	tw, err := NewTraceWriter(baseDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	if err := DeleteTrace(baseDir, runID); err != nil {
		t.Fatalf("Failed to delete trace: %v", err)
	}
	if _, err := os.Stat(tw.Path()); !os.IsNotExist(err) {
		t.Error("Trace file should be deleted")
	}

	// Deleting a missing trace is not an error.
	if err := DeleteTrace(baseDir, "missing"); err != nil {
		t.Errorf("Deleting missing trace should be nil, got %v", err)
	}
}
