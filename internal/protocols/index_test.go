package protocols

import (
	"reflect"
	"testing"

	"github.com/danmuck/handlectl/internal/guid"
	"github.com/danmuck/handlectl/internal/testutil/testlog"
)

func TestNameToIDCaseInsensitive(t *testing.T) {
	testlog.Start(t)
	idx := Default()
	for _, name := range []string{"BlockIO", "blockio", "BLOCKIO", "bLoCkIo"} {
		id, ok := idx.NameToID(name)
		if !ok {
			t.Fatalf("expected %q to resolve", name)
		}
		if id != BlockIOGUID {
			t.Fatalf("unexpected id for %q: %s", name, id)
		}
	}
}

func TestNameToIDMissIsNotAnError(t *testing.T) {
	testlog.Start(t)
	idx := Default()
	id, ok := idx.NameToID("Nonexistent")
	if ok {
		t.Fatalf("expected miss, got %s", id)
	}
	if !id.IsZero() {
		t.Fatalf("expected zero id on miss, got %s", id)
	}
	if _, ok := idx.NameToID(""); ok {
		t.Fatalf("expected empty name to miss")
	}
}

func TestIDToName(t *testing.T) {
	testlog.Start(t)
	idx := Default()
	if got := idx.IDToName(SerialIOGUID); got != "SerialIO" {
		t.Fatalf("unexpected name: %q", got)
	}
	unknown := guid.MustParse("11111111-2222-3333-4444-555555555555")
	if got := idx.IDToName(unknown); got != UnknownName {
		t.Fatalf("expected %q, got %q", UnknownName, got)
	}
}

func TestFirstMatchWinsOnDuplicateNames(t *testing.T) {
	testlog.Start(t)
	first := guid.MustParse("AAAAAAAA-0000-0000-0000-000000000001")
	second := guid.MustParse("AAAAAAAA-0000-0000-0000-000000000002")
	idx := New(Entry{Name: "Dup", ID: first}, Entry{Name: "DUP", ID: second})

	id, ok := idx.NameToID("dup")
	if !ok || id != first {
		t.Fatalf("expected first entry, got ok=%v id=%s", ok, id)
	}
	if got := idx.IDToName(second); got != "DUP" {
		t.Fatalf("second id should still map back to its own name, got %q", got)
	}
}

func TestWithExtraKeepsBuiltinPrecedence(t *testing.T) {
	testlog.Start(t)
	shadow := guid.MustParse("BBBBBBBB-0000-0000-0000-000000000000")
	textOut := guid.MustParse("387477C2-69C7-11D2-8E39-00A0C969723B")
	base := Default()
	idx := base.WithExtra([]Entry{
		{Name: "blockio", ID: shadow},
		{Name: "SimpleTextOut", ID: textOut},
	})

	if id, _ := idx.NameToID("BlockIO"); id != BlockIOGUID {
		t.Fatalf("extra entry must not shadow built-in, got %s", id)
	}
	if id, ok := idx.NameToID("simpletextout"); !ok || id != textOut {
		t.Fatalf("expected extra entry to resolve, got ok=%v id=%s", ok, id)
	}
	if base.Len() != len(Builtin()) {
		t.Fatalf("WithExtra must not mutate the receiver")
	}
	if idx.Len() != len(Builtin())+2 {
		t.Fatalf("unexpected len: %d", idx.Len())
	}
}

func TestNamesInTableOrder(t *testing.T) {
	testlog.Start(t)
	want := []string{
		"DevicePath", "LoadedImage", "BlockIO", "FileSystem",
		"DriverBinding", "PciIO", "GraphicsOutput", "SerialIO",
	}
	if got := Default().Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("names mismatch: got=%v want=%v", got, want)
	}
}

func TestSuggest(t *testing.T) {
	testlog.Start(t)
	idx := Default()

	got := idx.Suggest("BlockIOO", 3)
	if len(got) == 0 || got[0] != "BlockIO" {
		t.Fatalf("expected BlockIO first, got %v", got)
	}
	if len(idx.Suggest("zzzzzzzzzzzzzz", 3)) != 0 {
		t.Fatalf("expected no suggestions for unrelated input")
	}
	if idx.Suggest("", 3) != nil {
		t.Fatalf("expected nil for empty input")
	}
	if len(idx.Suggest("SerialI", 1)) > 1 {
		t.Fatalf("max not honoured")
	}
}
