package catalog

import (
	"errors"
	"testing"

	"github.com/danmuck/handlectl/internal/guid"
	"github.com/danmuck/handlectl/internal/testutil/testlog"
)

var (
	blockIO = guid.MustParse("964E5B21-6459-11D2-8E39-00A0C969723B")
	devPath = guid.MustParse("09576E91-6D3F-11D2-8E39-00A0C969723B")
)

func threeHandles() *StaticSource {
	return NewStaticSource(
		StaticHandle{Handle: 0x1000, Protocols: []StaticProtocol{{ID: devPath, Interface: 0xA000}}, DevicePath: "PciRoot(0x0)"},
		StaticHandle{Handle: 0x2000, Protocols: []StaticProtocol{
			{ID: devPath, Interface: 0xB000},
			{ID: blockIO, Interface: 0xB100},
		}},
		StaticHandle{Handle: 0x3000},
	)
}

func TestTakeCapturesInOrder(t *testing.T) {
	testlog.Start(t)
	snap, err := Take(threeHandles())
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	defer snap.Release()

	if snap.Len() != 3 {
		t.Fatalf("unexpected len: %d", snap.Len())
	}
	for i, want := range []Handle{0x1000, 0x2000, 0x3000} {
		e, ok := snap.At(i)
		if !ok || e.Handle != want || e.Ordinal != i {
			t.Fatalf("entry %d: ok=%v handle=%s ordinal=%d", i, ok, e.Handle, e.Ordinal)
		}
	}
	e, _ := snap.At(1)
	if len(e.Capabilities) != 2 || !e.Has(blockIO) || e.Capabilities[1].Interface != 0xB100 || !e.Capabilities[1].Bound {
		t.Fatalf("unexpected capabilities: %+v", e.Capabilities)
	}
	if e.HasDevicePath {
		t.Fatalf("handle without device path reported one")
	}
	first, _ := snap.At(0)
	if !first.HasDevicePath || first.DevicePath != "PciRoot(0x0)" {
		t.Fatalf("unexpected device path: %+v", first)
	}
	last, _ := snap.At(2)
	if last.Capabilities == nil || len(last.Capabilities) != 0 {
		t.Fatalf("expected empty non-nil capability set, got %#v", last.Capabilities)
	}
	if _, ok := snap.At(3); ok {
		t.Fatalf("expected out-of-range At to miss")
	}
	if _, ok := snap.At(-1); ok {
		t.Fatalf("expected negative At to miss")
	}
}

func TestTakeSkipsFailedProtocolQuery(t *testing.T) {
	testlog.Start(t)
	src := NewStaticSource(
		StaticHandle{Handle: 0x10, Protocols: []StaticProtocol{{ID: blockIO}}},
		StaticHandle{Handle: 0x20, Protocols: []StaticProtocol{{ID: blockIO}}, QueryErr: errors.New("EFI_OUT_OF_RESOURCES")},
		StaticHandle{Handle: 0x30, Protocols: []StaticProtocol{{ID: blockIO}}},
	)
	snap, err := Take(src)
	if err != nil {
		t.Fatalf("partial enumeration must not fail the snapshot: %v", err)
	}
	defer snap.Release()

	if snap.Len() != 3 || snap.Partial() != 1 {
		t.Fatalf("unexpected len=%d partial=%d", snap.Len(), snap.Partial())
	}
	e, _ := snap.At(1)
	if !errors.Is(e.Err, ErrPartialEnumeration) {
		t.Fatalf("expected ErrPartialEnumeration, got %v", e.Err)
	}
	if len(e.Capabilities) != 0 || e.Has(blockIO) {
		t.Fatalf("failed handle must report an empty set: %+v", e.Capabilities)
	}
}

func TestTakeRecordsUnboundInterface(t *testing.T) {
	testlog.Start(t)
	src := NewStaticSource(StaticHandle{Handle: 0x10, Protocols: []StaticProtocol{
		{ID: blockIO, Interface: 0x99, Unbound: true},
	}})
	snap, err := Take(src)
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	defer snap.Release()
	e, _ := snap.At(0)
	if len(e.Capabilities) != 1 || e.Capabilities[0].Bound || e.Capabilities[0].Interface != 0 {
		t.Fatalf("expected unbound capability, got %+v", e.Capabilities)
	}
}

func TestTakeFailsWithoutHandles(t *testing.T) {
	testlog.Start(t)
	src := NewStaticSource()
	src.EnumErr = errors.New("EFI_NOT_FOUND")
	if _, err := Take(src); !errors.Is(err, ErrNoHandles) {
		t.Fatalf("expected ErrNoHandles, got %v", err)
	}
	if _, err := Take(nil); !errors.Is(err, ErrNoHandles) {
		t.Fatalf("expected ErrNoHandles for nil source, got %v", err)
	}
}

func TestTakeEmptySourceIsNotAnError(t *testing.T) {
	testlog.Start(t)
	snap, err := Take(NewStaticSource())
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	defer snap.Release()
	if snap.Len() != 0 {
		t.Fatalf("expected empty snapshot")
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	testlog.Start(t)
	snap, err := Take(threeHandles())
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	snap.Release()
	snap.Release()
	if !snap.Released() || snap.Len() != 0 || snap.Entries() != nil {
		t.Fatalf("release did not drop entries")
	}
	if _, ok := snap.At(0); ok {
		t.Fatalf("released snapshot must not serve entries")
	}

	var nilSnap *Snapshot
	nilSnap.Release()
	if nilSnap.Len() != 0 || nilSnap.Released() {
		t.Fatalf("nil snapshot misbehaved")
	}
}

func TestSnapshotIsDetachedFromSource(t *testing.T) {
	testlog.Start(t)
	src := threeHandles()
	snap, err := Take(src)
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	defer snap.Release()

	ids, _ := src.ProtocolsPerHandle(0x2000)
	ids[0] = blockIO
	e, _ := snap.At(1)
	if e.Capabilities[0].ID != devPath {
		t.Fatalf("snapshot changed after source slice mutation")
	}
}

func TestStaticSourceUnknownHandle(t *testing.T) {
	testlog.Start(t)
	src := threeHandles()
	if _, err := src.ProtocolsPerHandle(0xDEAD); !errors.Is(err, ErrUnknownHandle) {
		t.Fatalf("expected ErrUnknownHandle, got %v", err)
	}
	if _, err := src.HandleProtocol(0x1000, blockIO); !errors.Is(err, ErrProtocolNotPresent) {
		t.Fatalf("expected ErrProtocolNotPresent, got %v", err)
	}
	if _, ok := src.DevicePathText(0xDEAD); ok {
		t.Fatalf("expected no device path for unknown handle")
	}
}

func TestHandleString(t *testing.T) {
	testlog.Start(t)
	if got := Handle(0x7E8F1A18).String(); got != "0x000000007E8F1A18" {
		t.Fatalf("unexpected handle text: %q", got)
	}
}
