package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// mockSnapshotStore implements the SnapshotStore interface for testing.
type mockSnapshotStore struct {
	mu            sync.Mutex
	generateCalls int
	generateErr   error
	path          string
	pathErr       error
}

func (m *mockSnapshotStore) GenerateSnapshot(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generateCalls++
	return m.generateErr
}

func (m *mockSnapshotStore) GetSnapshotPath(ctx context.Context) (string, error) {
	return m.path, m.pathErr
}

func (m *mockSnapshotStore) GetGenerateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generateCalls
}

// mockUploader records upload attempts and can fail a configurable number
// of times before succeeding.
type mockUploader struct {
	mu          sync.Mutex
	uploadCalls int
	failFirst   int
	lastPath    string
}

func (m *mockUploader) Upload(ctx context.Context, filePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadCalls++
	m.lastPath = filePath
	if m.uploadCalls <= m.failFirst {
		return errors.New("upload failed")
	}
	return nil
}

func (m *mockUploader) PresignedURL(ctx context.Context) (string, time.Time, error) {
	return "", time.Time{}, nil
}

func (m *mockUploader) GetUploadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploadCalls
}

func runWorker(t *testing.T, w *SnapshotWorker, runFor time.Duration) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	time.Sleep(runFor)
	cancel()
	<-done
}

func TestSnapshotWorker_GeneratesOnStart(t *testing.T) {
	store := &mockSnapshotStore{path: "/tmp/snap.db"}
	worker := NewSnapshotWorker(store, &mockUploader{}, 1*time.Hour)

	runWorker(t, worker, 50*time.Millisecond)

	if store.GetGenerateCalls() < 1 {
		t.Errorf("Expected at least 1 GenerateSnapshot call on start, got %d", store.GetGenerateCalls())
	}
}

func TestSnapshotWorker_GeneratesOnInterval(t *testing.T) {
	store := &mockSnapshotStore{path: "/tmp/snap.db"}
	worker := NewSnapshotWorker(store, &mockUploader{}, 50*time.Millisecond)

	runWorker(t, worker, 150*time.Millisecond)

	calls := store.GetGenerateCalls()
	// Should have initial + at least 2 interval calls
	if calls < 3 {
		t.Errorf("Expected at least 3 GenerateSnapshot calls (initial + 2 intervals), got %d", calls)
	}
}

func TestSnapshotWorker_UploadsAfterGeneration(t *testing.T) {
	store := &mockSnapshotStore{path: "/tmp/snap.db"}
	uploader := &mockUploader{}
	worker := NewSnapshotWorker(store, uploader, 1*time.Hour)

	runWorker(t, worker, 50*time.Millisecond)

	if uploader.GetUploadCalls() < 1 {
		t.Fatalf("Expected at least 1 upload call, got %d", uploader.GetUploadCalls())
	}
	uploader.mu.Lock()
	defer uploader.mu.Unlock()
	if uploader.lastPath != "/tmp/snap.db" {
		t.Errorf("upload path = %q, want /tmp/snap.db", uploader.lastPath)
	}
}

func TestSnapshotWorker_RetriesFailedUpload(t *testing.T) {
	store := &mockSnapshotStore{path: "/tmp/snap.db"}
	uploader := &mockUploader{failFirst: 2}
	worker := NewSnapshotWorker(store, uploader, 1*time.Hour)

	// First two attempts fail with exponential backoff starting at 1s, so
	// give the retry loop enough real time to recover.
	runWorker(t, worker, 4*time.Second)

	if uploader.GetUploadCalls() < 3 {
		t.Errorf("Expected at least 3 upload attempts, got %d", uploader.GetUploadCalls())
	}
}

func TestSnapshotWorker_SkipsUploadWhenGenerationFails(t *testing.T) {
	store := &mockSnapshotStore{generateErr: errors.New("disk full")}
	uploader := &mockUploader{}
	worker := NewSnapshotWorker(store, uploader, 1*time.Hour)

	runWorker(t, worker, 50*time.Millisecond)

	if uploader.GetUploadCalls() != 0 {
		t.Errorf("Expected no uploads after failed generation, got %d", uploader.GetUploadCalls())
	}
}

func TestSnapshotWorker_StopsOnContextCancel(t *testing.T) {
	store := &mockSnapshotStore{path: "/tmp/snap.db"}
	worker := NewSnapshotWorker(store, &mockUploader{}, 1*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}
