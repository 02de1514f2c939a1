package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"math"
	"strconv"
	"strings"

	"git.lost.host/meutraa/receptor/internal/game"
)

var ErrMalformed = errors.New("malformed chart")

// LoadError is returned for any chart that cannot be loaded. No partial
// chart is ever returned alongside it.
type LoadError struct {
	Key string
	Err error
}

func (e *LoadError) Error() string {
	if e.Key == "" {
		return "chart: " + e.Err.Error()
	}
	return fmt.Sprintf("chart %s: %v", e.Key, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func malformed(key, format string, args ...interface{}) error {
	return &LoadError{Key: key, Err: fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))}
}

// DefaultParser reads and writes the keyed json chart format:
//
//	{"offset": ms, "note0": [id, lane, ms, hold ms, texture, type], ...}
type DefaultParser struct {
	Lanes int
}

func (p *DefaultParser) lanes() int {
	if p.Lanes <= 0 {
		return game.DefaultLanes
	}
	return p.Lanes
}

// json.Unmarshal leaves the target untouched for null, which would hide a
// missing value.
func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func number(key string, raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); nil != err || isNull(raw) {
		return 0, malformed(key, "expected number, got %s", raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, malformed(key, "number out of range")
	}
	return f, nil
}

// Chart times are limited so that a time plus the offset still fits a
// time.Duration.
const maxMilliseconds = 1e12

func milliseconds(key string, raw json.RawMessage) (float64, error) {
	ms, err := number(key, raw)
	if nil != err {
		return 0, err
	}
	if math.Abs(ms) > maxMilliseconds {
		return 0, malformed(key, "%v ms out of range", ms)
	}
	return ms, nil
}

func integer(key string, raw json.RawMessage) (int, error) {
	var i int
	if err := json.Unmarshal(raw, &i); nil != err || isNull(raw) {
		return 0, malformed(key, "expected integer, got %s", raw)
	}
	return i, nil
}

func text(key string, raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); nil != err || isNull(raw) {
		return "", malformed(key, "expected string, got %s", raw)
	}
	return s, nil
}

// record decodes one note array. The offset is applied by the caller.
func (p *DefaultParser) record(key string, raw []json.RawMessage) (game.Note, error) {
	var note game.Note
	if len(raw) != 6 {
		return note, malformed(key, "expected 6 fields, got %d", len(raw))
	}
	var err error
	if note.ID, err = integer(key, raw[0]); nil != err {
		return note, err
	}
	if note.Lane, err = integer(key, raw[1]); nil != err {
		return note, err
	}
	ms, err := milliseconds(key, raw[2])
	if nil != err {
		return note, err
	}
	note.Time = game.Milliseconds(ms)
	hold, err := milliseconds(key, raw[3])
	if nil != err {
		return note, err
	}
	note.Hold = game.Milliseconds(hold)
	if note.Texture, err = text(key, raw[4]); nil != err {
		return note, err
	}
	if note.Type, err = text(key, raw[5]); nil != err {
		return note, err
	}
	if err := note.Validate(p.lanes()); nil != err {
		return note, &LoadError{Key: key, Err: err}
	}
	return note, nil
}

func (p *DefaultParser) Parse(data []byte) (*game.Chart, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if tok, err := dec.Token(); nil != err || tok != json.Delim('{') {
		return nil, malformed("", "expected object")
	}

	var (
		offset     float64
		haveOffset bool
		records    = map[int]game.Note{}
		ids        = map[int]string{}
	)

	for dec.More() {
		tok, err := dec.Token()
		if nil != err {
			return nil, malformed("", "%v", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, malformed("", "expected key")
		}

		if key == "offset" {
			if haveOffset {
				return nil, malformed(key, "duplicate key")
			}
			var raw json.RawMessage
			if err := dec.Decode(&raw); nil != err {
				return nil, malformed(key, "%v", err)
			}
			if offset, err = milliseconds(key, raw); nil != err {
				return nil, err
			}
			haveOffset = true
			continue
		}

		if !strings.HasPrefix(key, "note") {
			return nil, malformed(key, "unknown key")
		}
		index, err := strconv.Atoi(strings.TrimPrefix(key, "note"))
		if nil != err || index < 0 || strconv.Itoa(index) != strings.TrimPrefix(key, "note") {
			return nil, malformed(key, "unknown key")
		}
		if _, ok := records[index]; ok {
			return nil, malformed(key, "duplicate key")
		}

		var raw []json.RawMessage
		if err := dec.Decode(&raw); nil != err {
			return nil, malformed(key, "%v", err)
		}
		note, err := p.record(key, raw)
		if nil != err {
			return nil, err
		}
		if other, ok := ids[note.ID]; ok {
			return nil, malformed(key, "id %d already used by %s", note.ID, other)
		}
		ids[note.ID] = key
		records[index] = note
	}

	if tok, err := dec.Token(); nil != err || tok != json.Delim('}') {
		return nil, malformed("", "unterminated object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, malformed("", "trailing data")
	}
	if !haveOffset {
		return nil, malformed("offset", "missing")
	}

	chart := &game.Chart{
		Offset: game.Milliseconds(offset),
		Lanes:  p.lanes(),
		Notes:  make([]game.Note, len(records)),
	}
	for i := range chart.Notes {
		note, ok := records[i]
		if !ok {
			return nil, malformed(fmt.Sprintf("note%d", i), "missing")
		}
		note.Time -= chart.Offset
		chart.Notes[i] = note
	}
	chart.Sort()

	return chart, nil
}

func formatMs(b *bytes.Buffer, ms float64) {
	b.WriteString(strconv.FormatFloat(ms, 'f', -1, 64))
}

// Write encodes the chart in time order, renumbering ids to match the keys.
// Every note writes its own hold duration.
func (p *DefaultParser) Write(chart *game.Chart) ([]byte, error) {
	lanes := chart.Lanes
	if lanes <= 0 {
		lanes = p.lanes()
	}

	sorted := chart.Clone()
	sorted.Sort()

	var b bytes.Buffer
	b.WriteString("{\n\t\"offset\": ")
	formatMs(&b, game.ToMilliseconds(chart.Offset))

	for i, note := range sorted.Notes {
		if err := note.Validate(lanes); nil != err {
			return nil, fmt.Errorf("note %d: %w", note.ID, err)
		}
		texture, err := json.Marshal(note.Texture)
		if nil != err {
			return nil, err
		}
		kind, err := json.Marshal(note.Type)
		if nil != err {
			return nil, err
		}

		fmt.Fprintf(&b, ",\n\t\"note%d\": [%d, %d, ", i, i, note.Lane)
		formatMs(&b, game.ToMilliseconds(note.Time+chart.Offset))
		b.WriteString(", ")
		formatMs(&b, game.ToMilliseconds(note.Hold))
		b.WriteString(", ")
		b.Write(texture)
		b.WriteString(", ")
		b.Write(kind)
		b.WriteString("]")
	}
	b.WriteString("\n}\n")

	return b.Bytes(), nil
}

func (p *DefaultParser) ParseFile(file string) (*game.Chart, error) {
	data, err := ioutil.ReadFile(file)
	if nil != err {
		return nil, err
	}
	return p.Parse(data)
}

func (p *DefaultParser) WriteFile(file string, chart *game.Chart) error {
	data, err := p.Write(chart)
	if nil != err {
		return err
	}
	return ioutil.WriteFile(file, data, 0644)
}
