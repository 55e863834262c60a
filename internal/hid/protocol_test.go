package hid

import (
	"encoding/binary"
	"reflect"
	"testing"
	"time"

	"github.com/pleimann/navpad/internal/gesture"
)

func pointerReport(phase, slot byte, x, y int16, ts uint32) []byte {
	buf := make([]byte, 64)
	buf[0] = ReportIDPointer
	buf[1] = phase
	buf[2] = slot
	binary.LittleEndian.PutUint16(buf[3:5], uint16(x))
	binary.LittleEndian.PutUint16(buf[5:7], uint16(y))
	binary.LittleEndian.PutUint32(buf[7:11], ts)
	return buf
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    *Event
		wantErr bool
	}{
		{
			name: "down on slot 2",
			data: pointerReport(PhaseDown, 2, 10, 20, 12345),
			want: &Event{Phase: gesture.PhaseDown, Slot: 2, X: 10, Y: 20, Timestamp: 12345},
		},
		{
			name: "move with negative coordinates",
			data: pointerReport(PhaseMove, 0, -12, -3, 99999),
			want: &Event{Phase: gesture.PhaseMove, Slot: 0, X: -12, Y: -3, Timestamp: 99999},
		},
		{
			name: "up",
			data: pointerReport(PhaseUp, 1, 0, 0, 1),
			want: &Event{Phase: gesture.PhaseUp, Slot: 1, Timestamp: 1},
		},
		{
			name: "cancel",
			data: pointerReport(PhaseCancel, 3, 5, 5, 7),
			want: &Event{Phase: gesture.PhaseCancel, Slot: 3, X: 5, Y: 5, Timestamp: 7},
		},
		{
			name:    "data too short",
			data:    []byte{0x01, 0x01, 0x00},
			wantErr: true,
		},
		{
			name: "wrong report ID",
			data: func() []byte {
				buf := pointerReport(PhaseDown, 0, 0, 0, 0)
				buf[0] = 0xFF
				return buf
			}(),
			wantErr: true,
		},
		{
			name:    "unknown phase",
			data:    pointerReport(0x09, 0, 0, 0, 0),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEvent(tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseEvent() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseEvent() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEncodeEventRoundTrip(t *testing.T) {
	in := Event{Phase: gesture.PhaseMove, Slot: 4, X: -300, Y: 1200, Timestamp: 0xDEADBEEF}

	got, err := ParseEvent(EncodeEvent(in))
	if err != nil {
		t.Fatalf("ParseEvent() error = %v", err)
	}
	if *got != in {
		t.Errorf("round trip = %+v, want %+v", *got, in)
	}
}

func TestEventPointerEvent(t *testing.T) {
	e := Event{Phase: gesture.PhaseDown, Slot: 1, X: -4, Y: 17, Timestamp: 1500}

	want := gesture.PointerEvent{Phase: gesture.PhaseDown, X: -4, Y: 17, Time: 1500 * time.Millisecond}
	if got := e.PointerEvent(); got != want {
		t.Errorf("PointerEvent() = %+v, want %+v", got, want)
	}
}

func TestFeedbackReportEncode(t *testing.T) {
	tests := []struct {
		name   string
		report FeedbackReport
		want   []byte
	}{
		{
			name:   "virtual key",
			report: FeedbackReport{Kind: FeedbackVirtualKey, Duration: 15 * time.Millisecond},
			want:   []byte{ReportIDFeedback, FeedbackVirtualKey, 15, 0},
		},
		{
			name:   "long press",
			report: FeedbackReport{Kind: FeedbackLongPress, Duration: 300 * time.Millisecond},
			want:   []byte{ReportIDFeedback, FeedbackLongPress, 0x2C, 0x01},
		},
		{
			name:   "saturates",
			report: FeedbackReport{Kind: FeedbackClick, Duration: time.Hour},
			want:   []byte{ReportIDFeedback, FeedbackClick, 0xFF, 0xFF},
		},
		{
			name:   "negative clamps to zero",
			report: FeedbackReport{Kind: FeedbackClick, Duration: -time.Second},
			want:   []byte{ReportIDFeedback, FeedbackClick, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.report.Encode(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Encode() = %v, want %v", got, tt.want)
			}
		})
	}
}
