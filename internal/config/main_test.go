package config

import (
	"errors"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	dir := t.TempDir()
	c, err := Parse([]string{"play", dir})
	if nil != err {
		t.Fatal(err)
	}
	if c.Command != "play" || c.Directory != dir {
		t.Fatalf("%+v", c)
	}
	s := c.Session()
	if s.Timing.BPM != 120 || s.Lookahead != 2 || s.Lanes != 8 || s.Length != 0 {
		t.Fatalf("%+v", s)
	}
	if c.Delay != 1500*time.Millisecond || c.FramePeriod != 4*time.Millisecond {
		t.Fatalf("%+v", c)
	}
	if len(c.Codes) != 8 || c.Codes[0] != 30 || c.Codes[7] != 39 {
		t.Fatalf("codes %v", c.Codes)
	}
}

func TestParseFlags(t *testing.T) {
	dir := t.TempDir()
	c, err := Parse([]string{"check", "--workers", "2", "--lanes", "4", "--offset=-15ms", dir})
	if nil != err {
		t.Fatal(err)
	}
	if c.Command != "check" || c.Workers != 2 || c.Lanes != 4 || c.Offset != -15*time.Millisecond {
		t.Fatalf("%+v", c)
	}
}

func TestParseRejects(t *testing.T) {
	dir := t.TempDir()
	if _, err := Parse([]string{"play", "--bpm", "0", dir}); !errors.Is(err, ErrSession) {
		t.Errorf("bpm 0: %v", err)
	}
	if _, err := Parse([]string{"play", "--codes", "30,x", dir}); nil == err {
		t.Error("bad key code accepted")
	}
	if _, err := Parse([]string{"play", dir + "/missing"}); nil == err {
		t.Error("missing directory accepted")
	}
}

var keyTests = map[rune]int{
	'a': 0,
	'f': 3,
	';': 7,
	'x': -1,
}

func TestKeyLane(t *testing.T) {
	c := Config{Keys: "asdfjkl;", Lanes: 8}
	for r, expected := range keyTests {
		lane, ok := c.KeyLane(r)
		if lane != expected || ok != (expected >= 0) {
			t.Log("key     ", string(r))
			t.Log("lane    ", lane)
			t.Log("expected", expected)
			t.Fail()
		}
	}

	c.Lanes = 4
	if _, ok := c.KeyLane('j'); ok {
		t.Error("key past the lane count mapped")
	}
}

func TestCodeLane(t *testing.T) {
	c := Config{Codes: []uint16{30, 31, 32, 33}, Lanes: 4}
	if lane, ok := c.CodeLane(32); !ok || lane != 2 {
		t.Fatalf("32: %d %v", lane, ok)
	}
	if _, ok := c.CodeLane(40); ok {
		t.Fatal("40 mapped")
	}
}

func TestSessionValidate(t *testing.T) {
	s := DefaultSession()
	if err := s.Validate(); nil != err {
		t.Fatal(err)
	}
	for name, f := range map[string]func(*Session){
		"lookahead": func(s *Session) { s.Lookahead = 0 },
		"lanes":     func(s *Session) { s.Lanes = 0 },
		"length":    func(s *Session) { s.Length = -time.Second },
	} {
		s := DefaultSession()
		f(&s)
		if err := s.Validate(); !errors.Is(err, ErrSession) {
			t.Errorf("%v: %v", name, err)
		}
	}
}
