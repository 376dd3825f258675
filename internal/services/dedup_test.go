package services

import (
	"testing"
	"time"
)

func TestDeduperSuppressesRedelivery(t *testing.T) {
	d := NewDeduper(time.Minute)

	if d.Seen("wamid.ABC123") {
		t.Error("first delivery reported as seen")
	}
	if !d.Seen("wamid.ABC123") {
		t.Error("redelivery not reported as seen")
	}
	if d.Seen("wamid.XYZ789") {
		t.Error("unrelated id reported as seen")
	}
}

func TestDeduperIgnoresEmptyIDs(t *testing.T) {
	d := NewDeduper(time.Minute)

	if d.Seen("") || d.Seen("") {
		t.Error("empty ids must never be deduplicated")
	}
}

func TestDeduperForgetsAfterWindow(t *testing.T) {
	d := NewDeduper(20 * time.Millisecond)

	d.Seen("wamid.OLD")
	time.Sleep(40 * time.Millisecond)

	if d.Seen("wamid.OLD") {
		t.Error("id remembered past the dedup window")
	}
}
