package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/handlectl/internal/testutil/testlog"
)

const sampleDump = `
[[handle]]
address = 0x7E8F1A18
device_path = "PciRoot(0x0)/Pci(0x1F,0x2)/Sata(0x0,0xFFFF,0x0)"

[[handle.protocol]]
guid = "09576E91-6D3F-11D2-8E39-00A0C969723B"
interface = 0x7E8F2000

[[handle.protocol]]
guid = "964e5b21-6459-11d2-8e39-00a0c969723b"
interface = 0x7E8F2100

[[handle]]
address = 0x7E8F3018
error = "EFI_ACCESS_DENIED"

[[handle]]
address = 0x7E8F4018

[[handle.protocol]]
guid = "18A031AB-B443-4D1A-A5C0-0C09261E9F71"
unbound = true
`

func TestDecodeDump(t *testing.T) {
	testlog.Start(t)
	src, err := DecodeDump(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if src.Len() != 3 {
		t.Fatalf("unexpected handle count: %d", src.Len())
	}

	snap, err := Take(src)
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	defer snap.Release()

	first, _ := snap.At(0)
	if first.Handle != 0x7E8F1A18 || first.DevicePath != "PciRoot(0x0)/Pci(0x1F,0x2)/Sata(0x0,0xFFFF,0x0)" {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if !first.Has(blockIO) || first.Capabilities[1].Interface != 0x7E8F2100 {
		t.Fatalf("lowercase guid not decoded: %+v", first.Capabilities)
	}
	second, _ := snap.At(1)
	if !errors.Is(second.Err, ErrPartialEnumeration) || !strings.Contains(second.Err.Error(), "EFI_ACCESS_DENIED") {
		t.Fatalf("expected recorded query failure, got %v", second.Err)
	}
	third, _ := snap.At(2)
	if third.HasDevicePath || len(third.Capabilities) != 1 || third.Capabilities[0].Bound {
		t.Fatalf("unexpected third entry: %+v", third)
	}
}

func TestDecodeDumpRejectsBadInput(t *testing.T) {
	testlog.Start(t)
	cases := map[string]string{
		"bad guid": `
[[handle]]
address = 1
[[handle.protocol]]
guid = "not-a-guid"
`,
		"unknown key": `
[[handle]]
address = 1
colour = "blue"
`,
		"missing address": `
[[handle]]
device_path = "x"
`,
		"duplicate address": `
[[handle]]
address = 5
[[handle]]
address = 5
`,
		"not toml": `[[handle`,
	}
	for name, body := range cases {
		if _, err := DecodeDump(strings.NewReader(body)); !errors.Is(err, ErrInvalidDump) {
			t.Fatalf("%s: expected ErrInvalidDump, got %v", name, err)
		}
	}
}

func TestLoadDump(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "handles.toml")
	if err := os.WriteFile(path, []byte(sampleDump), 0o644); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	src, err := LoadDump(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if src.Len() != 3 {
		t.Fatalf("unexpected handle count: %d", src.Len())
	}

	if _, err := LoadDump(filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}
