//go:build unix

package db

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func lockDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, Dir), 0755); err != nil {
		t.Fatalf("create %s dir: %v", Dir, err)
	}
	return dir
}

func TestWriteLocker_AcquireRelease(t *testing.T) {
	dir := lockDir(t)
	locker := newWriteLocker(dir)

	if err := locker.acquire(500 * time.Millisecond); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, Dir, lockFileName))
	if err != nil {
		t.Fatalf("read lock file: %v", err)
	}
	if !strings.Contains(string(data), "pid:") {
		t.Errorf("lock file should contain holder info, got %q", data)
	}

	if err := locker.release(); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if err := locker.release(); err != nil {
		t.Errorf("second release should be a no-op: %v", err)
	}
}

func TestWriteLocker_SerializesWriters(t *testing.T) {
	dir := lockDir(t)

	const writers = 5
	const iterations = 10

	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				locker := newWriteLocker(dir)
				if err := locker.acquire(5 * time.Second); err != nil {
					t.Errorf("acquire failed: %v", err)
					return
				}
				val := atomic.LoadInt64(&counter)
				time.Sleep(time.Millisecond)
				atomic.StoreInt64(&counter, val+1)
				locker.release()
			}
		}()
	}
	wg.Wait()

	if counter != int64(writers*iterations) {
		t.Errorf("counter = %d, want %d", counter, writers*iterations)
	}
}

func TestWriteLocker_Timeout(t *testing.T) {
	dir := lockDir(t)

	held := newWriteLocker(dir)
	if err := held.acquire(500 * time.Millisecond); err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	defer held.release()

	waiter := newWriteLocker(dir)
	start := time.Now()
	err := waiter.acquire(100 * time.Millisecond)
	elapsed := time.Since(start)

	if err == nil {
		waiter.release()
		t.Fatal("expected timeout error, got nil")
	}
	if elapsed < 80*time.Millisecond {
		t.Errorf("gave up after %v, want ~100ms", elapsed)
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("error should mention timeout: %v", err)
	}
	if !strings.Contains(err.Error(), "pid ") {
		t.Errorf("error should name the holder: %v", err)
	}
}

func TestDescribeHolder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lock")

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing file", "", "unknown"},
		{"no pid", "time:2024-01-01T00:00:00Z\n", "unknown"},
		{"live holder", "pid:" + strconv.Itoa(os.Getpid()) + "\ntime:2024-01-01T00:00:00Z\n", "since 2024-01-01T00:00:00Z"},
		{"dead holder", "pid:999999999\ntime:2024-01-01T00:00:00Z\n", "stale"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Remove(path)
			if tt.content != "" {
				if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
					t.Fatal(err)
				}
			}
			if got := describeHolder(path); !strings.Contains(got, tt.want) {
				t.Errorf("describeHolder = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
