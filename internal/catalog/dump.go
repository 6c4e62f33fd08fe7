package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/handlectl/internal/guid"
	"github.com/pelletier/go-toml/v2"
)

var ErrInvalidDump = errors.New("catalog: invalid handle dump")

// dumpFile is the on-disk handle table layout:
//
//	[[handle]]
//	address = 0x7E8F1A18
//	device_path = "PciRoot(0x0)/Pci(0x1F,0x2)"
//
//	[[handle.protocol]]
//	guid = "964E5B21-6459-11D2-8E39-00A0C969723B"
//	interface = 0x7E8F2000
type dumpFile struct {
	Handles []dumpHandle `toml:"handle"`
}

type dumpHandle struct {
	Address    uint64         `toml:"address"`
	DevicePath string         `toml:"device_path"`
	Error      string         `toml:"error"`
	Protocols  []dumpProtocol `toml:"protocol"`
}

type dumpProtocol struct {
	GUID      string `toml:"guid"`
	Interface uint64 `toml:"interface"`
	Unbound   bool   `toml:"unbound"`
}

// LoadDump reads a TOML handle dump from path.
func LoadDump(path string) (*StaticSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("handle dump load failed (%s): %w", path, err)
	}
	src, err := DecodeDump(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("handle dump parse failed (%s): %w", path, err)
	}
	return src, nil
}

// DecodeDump decodes a handle dump. Unknown keys and malformed GUIDs are
// rejected.
func DecodeDump(r io.Reader) (*StaticSource, error) {
	var raw dumpFile
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}

	handles := make([]StaticHandle, 0, len(raw.Handles))
	seen := make(map[uint64]bool, len(raw.Handles))
	for i, h := range raw.Handles {
		if h.Address == 0 {
			return nil, fmt.Errorf("%w: handle[%d] missing address", ErrInvalidDump, i)
		}
		if seen[h.Address] {
			return nil, fmt.Errorf("%w: handle[%d] duplicate address %s", ErrInvalidDump, i, FormatAddress(h.Address))
		}
		seen[h.Address] = true

		sh := StaticHandle{
			Handle:     Handle(h.Address),
			DevicePath: h.DevicePath,
			Protocols:  make([]StaticProtocol, 0, len(h.Protocols)),
		}
		if h.Error != "" {
			sh.QueryErr = errors.New(h.Error)
		}
		for j, p := range h.Protocols {
			id, err := guid.Parse(p.GUID)
			if err != nil {
				return nil, fmt.Errorf("%w: handle[%d].protocol[%d]: %w", ErrInvalidDump, i, j, err)
			}
			sh.Protocols = append(sh.Protocols, StaticProtocol{
				ID:        id,
				Interface: p.Interface,
				Unbound:   p.Unbound,
			})
		}
		handles = append(handles, sh)
	}
	return NewStaticSource(handles...), nil
}
