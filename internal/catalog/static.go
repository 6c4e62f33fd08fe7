package catalog

import (
	"errors"
	"fmt"

	"github.com/danmuck/handlectl/internal/guid"
)

var (
	ErrUnknownHandle      = errors.New("catalog: unknown handle")
	ErrProtocolNotPresent = errors.New("catalog: protocol not installed")
)

// StaticProtocol is one installed protocol in a StaticSource.
type StaticProtocol struct {
	ID        guid.GUID
	Interface uint64
	// Unbound makes HandleProtocol fail for this protocol.
	Unbound bool
}

// StaticHandle is one handle in a StaticSource.
type StaticHandle struct {
	Handle     Handle
	DevicePath string
	Protocols  []StaticProtocol
	// QueryErr makes ProtocolsPerHandle fail for this handle.
	QueryErr error
}

// StaticSource serves a fixed handle table from memory.
type StaticSource struct {
	handles []StaticHandle
	byAddr  map[Handle]int
	// EnumErr makes Handles fail.
	EnumErr error
}

// NewStaticSource builds a source over handles in the given order.
func NewStaticSource(handles ...StaticHandle) *StaticSource {
	s := &StaticSource{
		handles: make([]StaticHandle, len(handles)),
		byAddr:  make(map[Handle]int, len(handles)),
	}
	copy(s.handles, handles)
	for i, h := range s.handles {
		if _, dup := s.byAddr[h.Handle]; !dup {
			s.byAddr[h.Handle] = i
		}
	}
	return s
}

func (s *StaticSource) Handles() ([]Handle, error) {
	if s.EnumErr != nil {
		return nil, s.EnumErr
	}
	out := make([]Handle, 0, len(s.handles))
	for _, h := range s.handles {
		out = append(out, h.Handle)
	}
	return out, nil
}

func (s *StaticSource) ProtocolsPerHandle(h Handle) ([]guid.GUID, error) {
	sh, err := s.lookup(h)
	if err != nil {
		return nil, err
	}
	if sh.QueryErr != nil {
		return nil, sh.QueryErr
	}
	out := make([]guid.GUID, 0, len(sh.Protocols))
	for _, p := range sh.Protocols {
		out = append(out, p.ID)
	}
	return out, nil
}

func (s *StaticSource) HandleProtocol(h Handle, id guid.GUID) (uint64, error) {
	sh, err := s.lookup(h)
	if err != nil {
		return 0, err
	}
	for _, p := range sh.Protocols {
		if p.ID != id {
			continue
		}
		if p.Unbound {
			return 0, fmt.Errorf("%w: %s on %s", ErrProtocolNotPresent, id, h)
		}
		return p.Interface, nil
	}
	return 0, fmt.Errorf("%w: %s on %s", ErrProtocolNotPresent, id, h)
}

func (s *StaticSource) DevicePathText(h Handle) (string, bool) {
	sh, err := s.lookup(h)
	if err != nil || sh.DevicePath == "" {
		return "", false
	}
	return sh.DevicePath, true
}

// Len reports the number of handles served.
func (s *StaticSource) Len() int {
	return len(s.handles)
}

func (s *StaticSource) lookup(h Handle) (StaticHandle, error) {
	i, ok := s.byAddr[h]
	if !ok {
		return StaticHandle{}, fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	return s.handles[i], nil
}
