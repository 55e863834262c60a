package hid

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/karalabe/hid"
	"github.com/sirupsen/logrus"

	"github.com/pleimann/navpad/internal/utils"
)

// ErrDeviceClosed is returned by operations on a closed device
var ErrDeviceClosed = errors.New("device closed")

// Device represents a connection to the button pad
type Device struct {
	vendorID  uint16
	productID uint16
	device    *hid.Device
	log       logrus.FieldLogger
	mu        sync.Mutex
	closed    bool
}

const permissionHint = "\n  This may be a permissions issue. On Linux, add a udev rule granting\n" +
	"  your user access to the hidraw node; on macOS, allow your terminal under\n" +
	"  System Settings > Privacy & Security > Input Monitoring"

func notFoundError(vendorID, productID uint16) error {
	name := utils.ExecutableName()
	return fmt.Errorf("no device found with VendorID=0x%04X, ProductID=0x%04X\n"+
		"  Run '%s list-devices' to see available devices\n"+
		"  Run '%s set-device' to configure the correct device",
		vendorID, productID, name, name)
}

// NewDevice opens a connection to a HID device with the specified vendor and product IDs
func NewDevice(vendorID, productID uint16, log logrus.FieldLogger) (*Device, error) {
	devices := hid.Enumerate(vendorID, productID)
	if len(devices) == 0 {
		if len(hid.Enumerate(0, 0)) == 0 {
			return nil, fmt.Errorf("no HID devices found on system - check USB connection")
		}
		return nil, notFoundError(vendorID, productID)
	}

	d := &Device{
		vendorID:  vendorID,
		productID: productID,
		log:       log.WithField("component", "hid"),
	}

	// Some pads expose several interfaces and not all of them can be opened
	dev, err := openFirst(devices)
	if err != nil {
		return nil, fmt.Errorf("failed to open any of %d interfaces for device 0x%04X:0x%04X: %w"+permissionHint,
			len(devices), vendorID, productID, err)
	}
	d.device = dev

	return d, nil
}

func openFirst(devices []hid.DeviceInfo) (*hid.Device, error) {
	var lastErr error
	for _, info := range devices {
		dev, err := info.Open()
		if err == nil {
			return dev, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// Close closes the HID device connection. A blocked ReadEvents returns.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	if d.device != nil {
		return d.device.Close()
	}
	return nil
}

// ReadEvents reads pointer reports until ctx is canceled or the device
// fails, handing each parsed event to handle. Malformed reports are logged
// and skipped.
func (d *Device) ReadEvents(ctx context.Context, handle func(Event)) error {
	stop := context.AfterFunc(ctx, func() { d.Close() })
	defer stop()

	buf := make([]byte, 64)

	for {
		d.mu.Lock()
		if d.closed {
			d.mu.Unlock()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return ErrDeviceClosed
		}
		dev := d.device
		d.mu.Unlock()
		if dev == nil {
			return ErrDeviceClosed
		}

		n, err := dev.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read error: %w", err)
		}

		if n == 0 {
			continue
		}

		event, err := ParseEvent(buf[:n])
		if err != nil {
			d.log.WithError(err).Debug("dropping malformed report")
			continue
		}

		handle(*event)
	}
}

// Write sends data to the HID device
func (d *Device) Write(data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || d.device == nil {
		return ErrDeviceClosed
	}

	_, err := d.device.Write(data)
	return err
}

// SendFeedback asks the pad to vibrate or click
func (d *Device) SendFeedback(report *FeedbackReport) error {
	return d.Write(report.Encode())
}

// Reconnect attempts to reconnect to the device
func (d *Device) Reconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.device != nil {
		d.device.Close()
		d.device = nil
	}
	d.closed = false

	devices := hid.Enumerate(d.vendorID, d.productID)
	if len(devices) == 0 {
		return fmt.Errorf("device not found")
	}

	dev, err := openFirst(devices)
	if err != nil {
		return fmt.Errorf("failed to open device: %w", err)
	}
	d.device = dev
	return nil
}

// WaitForDevice waits for a device to become available and connects to it
func (d *Device) WaitForDevice(ctx context.Context, pollInterval time.Duration) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := d.Reconnect(); err == nil {
				d.log.Info("device reconnected")
				return nil
			}
		}
	}
}
