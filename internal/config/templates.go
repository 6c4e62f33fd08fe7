package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Template returns the sample config or handle dump for kind.
func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "config":
		return configTemplate, nil
	case "dump", "handles":
		return dumpTemplate, nil
	default:
		return "", fmt.Errorf("unknown template kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o644)
}

// Encode renders cfg back to TOML, omitting nothing.
func Encode(cfg Config) (string, error) {
	raw := fileConfig{
		DumpPath:    cfg.DumpPath,
		LogPath:     cfg.LogPath,
		Color:       cfg.Color,
		ClearScreen: cfg.ClearScreen,
		Template:    fileTemplate{BellOnIncomplete: cfg.BellOnIncomplete},
		Metrics:     fileMetrics{Textfile: cfg.MetricsTextfile},
	}
	for _, p := range cfg.Protocols {
		raw.Protocols = append(raw.Protocols, fileProtocol{Name: p.Name, GUID: p.ID.String()})
	}
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(raw); err != nil {
		return "", err
	}
	return b.String(), nil
}

const configTemplate = `dump_path = "handles.toml"
log_path = "HandleDump.log"
color = true
clear_screen = true

[template]
bell_on_incomplete = false

[metrics]
textfile = ""

[[protocols]]
name = "SimpleTextOut"
guid = "387477C2-69C7-11D2-8E39-00A0C969723B"

[[protocols]]
name = "SimpleTextIn"
guid = "387477C1-69C7-11D2-8E39-00A0C969723B"
`

const dumpTemplate = `[[handle]]
address = 0x7E8F1A18
device_path = "PciRoot(0x0)/Pci(0x1F,0x2)/Sata(0x0,0xFFFF,0x0)"

[[handle.protocol]]
guid = "09576E91-6D3F-11D2-8E39-00A0C969723B"
interface = 0x7E8F2000

[[handle.protocol]]
guid = "964E5B21-6459-11D2-8E39-00A0C969723B"
interface = 0x7E8F2100

[[handle]]
address = 0x7E8F3A98
device_path = "PciRoot(0x0)/Pci(0x1F,0x2)/Sata(0x0,0xFFFF,0x0)/HD(1,GPT,5D7C3B8E-92A1-4B3C-9F3A-4A0B1C2D3E4F,0x800,0x100000)"

[[handle.protocol]]
guid = "09576E91-6D3F-11D2-8E39-00A0C969723B"
interface = 0x7E8F4000

[[handle.protocol]]
guid = "964E5B21-6459-11D2-8E39-00A0C969723B"
interface = 0x7E8F4100

[[handle.protocol]]
guid = "964E5B22-6459-11D2-8E39-00A0C969723B"
interface = 0x7E8F4200

[[handle]]
address = 0x7E9B0018

[[handle.protocol]]
guid = "5B1B31A1-9562-11D2-8E3F-00A0C969723B"
interface = 0x7E9B1000

[[handle.protocol]]
guid = "18A031AB-B443-4D1A-A5C0-0C09261E9F71"
interface = 0x7E9B2000

[[handle]]
address = 0x7EA40018
device_path = "PciRoot(0x0)/Pci(0x2,0x0)"

[[handle.protocol]]
guid = "09576E91-6D3F-11D2-8E39-00A0C969723B"
interface = 0x7EA41000

[[handle.protocol]]
guid = "4CF5B200-68B8-4CA5-9EEC-B23E3F50029A"
interface = 0x7EA42000

[[handle.protocol]]
guid = "9042A9DE-23DC-4A38-96FB-7ADED080516A"
interface = 0x7EA43000

[[handle]]
address = 0x7EB00018
device_path = "PciRoot(0x0)/Pci(0x1F,0x0)/Serial(0x0)"
error = "EFI_ACCESS_DENIED"
`
