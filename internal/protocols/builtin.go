package protocols

import "github.com/danmuck/handlectl/internal/guid"

// Well-known protocol identifiers from the UEFI specification.
var (
	DevicePathGUID       = guid.MustParse("09576E91-6D3F-11D2-8E39-00A0C969723B")
	LoadedImageGUID      = guid.MustParse("5B1B31A1-9562-11D2-8E3F-00A0C969723B")
	BlockIOGUID          = guid.MustParse("964E5B21-6459-11D2-8E39-00A0C969723B")
	SimpleFileSystemGUID = guid.MustParse("964E5B22-6459-11D2-8E39-00A0C969723B")
	DriverBindingGUID    = guid.MustParse("18A031AB-B443-4D1A-A5C0-0C09261E9F71")
	PciIOGUID            = guid.MustParse("4CF5B200-68B8-4CA5-9EEC-B23E3F50029A")
	GraphicsOutputGUID   = guid.MustParse("9042A9DE-23DC-4A38-96FB-7ADED080516A")
	SerialIOGUID         = guid.MustParse("BB25CF6F-F1D4-11D2-9A0C-0090273FC1FD")
)

// Builtin returns the fixed protocol table shipped with the tool.
func Builtin() []Entry {
	return []Entry{
		{Name: "DevicePath", ID: DevicePathGUID},
		{Name: "LoadedImage", ID: LoadedImageGUID},
		{Name: "BlockIO", ID: BlockIOGUID},
		{Name: "FileSystem", ID: SimpleFileSystemGUID},
		{Name: "DriverBinding", ID: DriverBindingGUID},
		{Name: "PciIO", ID: PciIOGUID},
		{Name: "GraphicsOutput", ID: GraphicsOutputGUID},
		{Name: "SerialIO", ID: SerialIOGUID},
	}
}

// Default returns an index over the built-in table.
func Default() *Index {
	return New(Builtin()...)
}
