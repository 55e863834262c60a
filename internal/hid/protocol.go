package hid

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/pleimann/navpad/internal/gesture"
)

// Report IDs
const (
	ReportIDPointer  byte = 0x01
	ReportIDFeedback byte = 0x03
)

// PointerReportSize is the minimum length of a pointer input report
const PointerReportSize = 11

// Pointer phases as sent by the pad
const (
	PhaseDown   byte = 0x01
	PhaseUp     byte = 0x02
	PhaseMove   byte = 0x03
	PhaseCancel byte = 0x04
)

// Feedback kinds understood by the pad
const (
	FeedbackVirtualKey byte = 0x01
	FeedbackLongPress  byte = 0x02
	FeedbackClick      byte = 0x03
)

// Event is one pointer sample reported by the pad. X and Y are relative to
// the top-left corner of the button in Slot.
type Event struct {
	Phase     gesture.Phase
	Slot      int
	X         int16
	Y         int16
	Timestamp uint32
}

// ParseEvent parses a raw HID report into an Event
// Expected format:
//
//	Byte 0: Report ID (0x01)
//	Byte 1: Phase (0x01=down, 0x02=up, 0x03=move, 0x04=cancel)
//	Byte 2: Slot index
//	Byte 3-4: X (int16, little-endian)
//	Byte 5-6: Y (int16, little-endian)
//	Byte 7-10: Timestamp (ms since boot, little-endian u32)
func ParseEvent(data []byte) (*Event, error) {
	if len(data) < PointerReportSize {
		return nil, fmt.Errorf("event data too short: %d bytes", len(data))
	}

	if data[0] != ReportIDPointer {
		return nil, fmt.Errorf("unexpected report ID: 0x%02X", data[0])
	}

	var phase gesture.Phase
	switch data[1] {
	case PhaseDown:
		phase = gesture.PhaseDown
	case PhaseUp:
		phase = gesture.PhaseUp
	case PhaseMove:
		phase = gesture.PhaseMove
	case PhaseCancel:
		phase = gesture.PhaseCancel
	default:
		return nil, fmt.Errorf("unknown pointer phase: 0x%02X", data[1])
	}

	return &Event{
		Phase:     phase,
		Slot:      int(data[2]),
		X:         int16(binary.LittleEndian.Uint16(data[3:5])),
		Y:         int16(binary.LittleEndian.Uint16(data[5:7])),
		Timestamp: binary.LittleEndian.Uint32(data[7:11]),
	}, nil
}

// PointerEvent converts the report into a dispatcher event
func (e *Event) PointerEvent() gesture.PointerEvent {
	return gesture.PointerEvent{
		Phase: e.Phase,
		X:     float32(e.X),
		Y:     float32(e.Y),
		Time:  time.Duration(e.Timestamp) * time.Millisecond,
	}
}

// EncodeEvent serializes a pointer report. The pad firmware never needs
// this; it exists for simulators and tests.
func EncodeEvent(e Event) []byte {
	buf := make([]byte, PointerReportSize)
	buf[0] = ReportIDPointer
	switch e.Phase {
	case gesture.PhaseDown:
		buf[1] = PhaseDown
	case gesture.PhaseUp:
		buf[1] = PhaseUp
	case gesture.PhaseMove:
		buf[1] = PhaseMove
	case gesture.PhaseCancel:
		buf[1] = PhaseCancel
	}
	buf[2] = byte(e.Slot)
	binary.LittleEndian.PutUint16(buf[3:5], uint16(e.X))
	binary.LittleEndian.PutUint16(buf[5:7], uint16(e.Y))
	binary.LittleEndian.PutUint32(buf[7:11], e.Timestamp)
	return buf
}

// FeedbackReport asks the pad to buzz or click
type FeedbackReport struct {
	Kind     byte
	Duration time.Duration
}

// Encode serializes the FeedbackReport for transmission
// Format:
//
//	Byte 0: Report ID (0x03)
//	Byte 1: Kind (0x01=virtual key, 0x02=long press, 0x03=click)
//	Byte 2-3: Duration in ms (little-endian u16, saturating)
func (f *FeedbackReport) Encode() []byte {
	ms := f.Duration.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	if ms > 0xFFFF {
		ms = 0xFFFF
	}

	buf := make([]byte, 4)
	buf[0] = ReportIDFeedback
	buf[1] = f.Kind
	binary.LittleEndian.PutUint16(buf[2:4], uint16(ms))
	return buf
}
