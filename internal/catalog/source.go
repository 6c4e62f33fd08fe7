package catalog

import (
	"fmt"

	"github.com/danmuck/handlectl/internal/guid"
)

// Handle is an opaque firmware object token. Its value is only used for
// identity and display.
type Handle uint64

func (h Handle) String() string {
	return FormatAddress(uint64(h))
}

// FormatAddress renders an address-like token as fixed-width hex.
func FormatAddress(v uint64) string {
	return fmt.Sprintf("0x%016X", v)
}

// Source is the firmware boundary. Any protocol may be queried on any
// handle; the result is an opaque interface token.
type Source interface {
	// Handles enumerates every handle in firmware order.
	Handles() ([]Handle, error)
	// ProtocolsPerHandle lists the protocol identifiers installed on h.
	ProtocolsPerHandle(h Handle) ([]guid.GUID, error)
	// HandleProtocol returns the interface token of protocol id on h.
	HandleProtocol(h Handle, id guid.GUID) (uint64, error)
	// DevicePathText renders the device path of h, if it has one.
	DevicePathText(h Handle) (string, bool)
}
