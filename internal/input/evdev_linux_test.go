package input

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"reflect"
	"testing"
	"time"

	"git.lost.host/meutraa/receptor/internal/game"
)

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	for _, ev := range []keyEvent{
		{Type: evKey, Code: 30, Value: valueDown},
		{Type: 0x00, Code: 0, Value: 0}, // sync
		{Type: evKey, Code: 30, Value: valueRepeat},
		{Type: evKey, Code: 99, Value: valueDown},
		{Type: evKey, Code: 31, Value: valueDown},
		{Type: evKey, Code: 30, Value: valueUp},
	} {
		if err := binary.Write(&buf, binary.LittleEndian, ev); nil != err {
			t.Fatal(err)
		}
	}

	lanes := func(code uint16) (int, bool) {
		switch code {
		case 30:
			return 0, true
		case 31:
			return 1, true
		}
		return -1, false
	}
	now := time.Duration(0)
	clock := func() time.Duration {
		now += time.Millisecond
		return now
	}

	events := make(chan game.Input, 8)
	if err := decode(&buf, lanes, clock, events, nil); err != io.EOF {
		t.Fatal(err)
	}
	close(events)

	out := []game.Input{}
	for in := range events {
		out = append(out, in)
	}
	expected := []game.Input{
		{Lane: 0, Direction: game.Down, Time: time.Millisecond},
		{Lane: 1, Direction: game.Down, Time: 2 * time.Millisecond},
		{Lane: 0, Direction: game.Up, Time: 3 * time.Millisecond},
	}
	if !reflect.DeepEqual(out, expected) {
		t.Log("out     ", out)
		t.Log("expected", expected)
		t.Fail()
	}
}

func TestDecodeStopsWhenFull(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < 3; i++ {
		if err := binary.Write(&buf, binary.LittleEndian, keyEvent{Type: evKey, Code: 30, Value: valueDown}); nil != err {
			t.Fatal(err)
		}
	}
	lanes := func(code uint16) (int, bool) {
		return 0, true
	}
	clock := func() time.Duration {
		return 0
	}

	events := make(chan game.Input, 1)
	done := make(chan struct{})
	close(done)
	if err := decode(&buf, lanes, clock, events, done); err != os.ErrClosed {
		t.Fatalf("got %v", err)
	}
	if len(events) > 1 {
		t.Fatalf("%d events", len(events))
	}
}
