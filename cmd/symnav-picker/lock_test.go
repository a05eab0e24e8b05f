//go:build !windows

package main

import (
	"path/filepath"
	"testing"
)

func TestAcquireLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "picker.lock")

	fd, err := acquireLock(path)
	if err != nil {
		t.Fatalf("acquireLock failed: %v", err)
	}
	defer releaseLock(fd)

	// A second acquisition on the same path must fail while held.
	if _, err := acquireLock(path); err == nil {
		t.Fatal("expected second acquireLock to fail")
	}
}

func TestAcquireLock_ReleasedLockIsReusable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "picker.lock")

	fd, err := acquireLock(path)
	if err != nil {
		t.Fatalf("acquireLock failed: %v", err)
	}
	releaseLock(fd)

	fd2, err := acquireLock(path)
	if err != nil {
		t.Fatalf("acquireLock after release failed: %v", err)
	}
	releaseLock(fd2)
}
