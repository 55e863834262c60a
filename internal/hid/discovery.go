package hid

import (
	"fmt"
	"sort"

	"github.com/karalabe/hid"
)

// DeviceInfo contains information about a discovered HID device
type DeviceInfo struct {
	VendorID     uint16
	ProductID    uint16
	Path         string
	Manufacturer string
	Product      string
	SerialNumber string
	UsagePage    uint16
	Usage        uint16
	Interface    int
}

func (d DeviceInfo) String() string {
	name := d.Product
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("%04X:%04X %s", d.VendorID, d.ProductID, name)
}

func fromInfo(d hid.DeviceInfo) DeviceInfo {
	return DeviceInfo{
		VendorID:     d.VendorID,
		ProductID:    d.ProductID,
		Path:         d.Path,
		Manufacturer: d.Manufacturer,
		Product:      d.Product,
		SerialNumber: d.Serial,
		UsagePage:    d.UsagePage,
		Usage:        d.Usage,
		Interface:    d.Interface,
	}
}

// ListDevices returns every HID device on the system, one entry per
// vendor/product pair, sorted by vendor then product
func ListDevices() ([]DeviceInfo, error) {
	if !hid.Supported() {
		return nil, fmt.Errorf("HID enumeration is not supported on this platform")
	}

	seen := make(map[[2]uint16]bool)
	var result []DeviceInfo
	for _, d := range hid.Enumerate(0, 0) {
		key := [2]uint16{d.VendorID, d.ProductID}
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, fromInfo(d))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].VendorID != result[j].VendorID {
			return result[i].VendorID < result[j].VendorID
		}
		return result[i].ProductID < result[j].ProductID
	})

	return result, nil
}

// FindDevice searches for a device matching the given vendor and product
// IDs. It returns nil without an error when none is connected.
func FindDevice(vendorID, productID uint16) (*DeviceInfo, error) {
	devices := hid.Enumerate(vendorID, productID)
	if len(devices) == 0 {
		return nil, nil
	}

	info := fromInfo(devices[0])
	return &info, nil
}
