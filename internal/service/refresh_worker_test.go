package service

import (
	"testing"
	"time"
)

func TestShouldRefresh_ZeroTime(t *testing.T) {
	if !shouldRefresh(time.Time{}, time.Hour, time.Now()) {
		t.Error("zero refreshedAt should always be due")
	}
}

func TestShouldRefresh_Fresh(t *testing.T) {
	now := time.Now()
	if shouldRefresh(now.Add(-30*time.Minute), time.Hour, now) {
		t.Error("channel refreshed 30m ago with 1h interval should not be due")
	}
}

func TestShouldRefresh_Stale(t *testing.T) {
	now := time.Now()
	if !shouldRefresh(now.Add(-2*time.Hour), time.Hour, now) {
		t.Error("channel refreshed 2h ago with 1h interval should be due")
	}
}

func TestShouldRefresh_ExactBoundary(t *testing.T) {
	now := time.Now()
	if !shouldRefresh(now.Add(-time.Hour), time.Hour, now) {
		t.Error("channel refreshed exactly one interval ago should be due")
	}
}
