package palette

import (
	"errors"
	"testing"

	"github.com/lixenwraith/pepterm/terminal"
)

func TestSchemeEndpoints(t *testing.T) {
	tests := []struct {
		name  string
		first terminal.RGB
		last  terminal.RGB
	}{
		{"rainbow", terminal.RGB{R: 0, G: 0, B: 255}, terminal.RGB{R: 255, G: 0, B: 0}},
		{"coolwarm", terminal.RGB{R: 0x3b, G: 0x4c, B: 0xc0}, terminal.RGB{R: 0xb4, G: 0x04, B: 0x26}},
		{"viridis", terminal.RGB{R: 0x44, G: 0x01, B: 0x54}, terminal.RGB{R: 0xfd, G: 0xe7, B: 0x25}},
		{"white", terminal.RGBWhite, terminal.RGBWhite},
	}

	for _, tt := range tests {
		s, err := Lookup(tt.name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", tt.name, err)
		}
		if got := s.Color(0); got != tt.first {
			t.Errorf("%s Color(0) = %v, want %v", tt.name, got, tt.first)
		}
		if got := s.Color(1); got != tt.last {
			t.Errorf("%s Color(1) = %v, want %v", tt.name, got, tt.last)
		}
		// Out of range clamps
		if got := s.Color(-3); got != tt.first {
			t.Errorf("%s Color(-3) = %v, want %v", tt.name, got, tt.first)
		}
		if got := s.Color(7); got != tt.last {
			t.Errorf("%s Color(7) = %v, want %v", tt.name, got, tt.last)
		}
	}
}

func TestSchemeInteriorStop(t *testing.T) {
	s, _ := Lookup("rainbow")
	// Five stops: t=0.5 lands exactly on the third
	if got, want := s.Color(0.5), (terminal.RGB{R: 0, G: 255, B: 0}); got != want {
		t.Errorf("rainbow Color(0.5) = %v, want %v", got, want)
	}
	// Midway between blue and cyan
	got := s.Color(0.125)
	if got.R != 0 || got.B != 255 || got.G < 126 || got.G > 129 {
		t.Errorf("rainbow Color(0.125) = %v, want ~{0 128 255}", got)
	}
}

func TestNamesAndCycle(t *testing.T) {
	names := Names()
	if len(names) != 13 {
		t.Fatalf("len(Names()) = %d, want 13", len(names))
	}
	if names[0] != "rainbow" || names[12] != "white" {
		t.Errorf("cycle order = %v", names)
	}

	s := Default()
	if s.Name() != DefaultName {
		t.Fatalf("Default().Name() = %q", s.Name())
	}
	seen := map[string]bool{}
	for range names {
		seen[s.Name()] = true
		s = s.Next()
	}
	if len(seen) != len(names) {
		t.Errorf("Next visited %d schemes, want %d", len(seen), len(names))
	}
	if s.Name() != DefaultName {
		t.Errorf("full cycle ended at %q, want %q", s.Name(), DefaultName)
	}
}

func TestLookupSolid(t *testing.T) {
	tests := []struct {
		name string
		want terminal.RGB
	}{
		{"orange", terminal.RGB{R: 255, G: 165, B: 0}},
		{"#ff8800", terminal.RGB{R: 255, G: 136, B: 0}},
		{"Red", terminal.RGB{R: 255, G: 0, B: 0}},
	}
	for _, tt := range tests {
		s, err := Lookup(tt.name)
		if err != nil {
			t.Errorf("Lookup(%q): %v", tt.name, err)
			continue
		}
		for _, v := range []float64{0, 0.3, 1} {
			if got := s.Color(v); got != tt.want {
				t.Errorf("Lookup(%q).Color(%v) = %v, want %v", tt.name, v, got, tt.want)
			}
		}
		if s.Next().Name() != "rainbow" {
			t.Errorf("solid %q Next = %q, want rainbow", tt.name, s.Next().Name())
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	for _, name := range []string{"", "notacolor", "#zzzzzz"} {
		if _, err := Lookup(name); !errors.Is(err, ErrUnknownScheme) {
			t.Errorf("Lookup(%q) err = %v, want ErrUnknownScheme", name, err)
		}
	}
}

func TestZeroScheme(t *testing.T) {
	var s Scheme
	if s.Valid() {
		t.Error("zero Scheme reports valid")
	}
	if got := s.Color(0.5); got != terminal.RGBWhite {
		t.Errorf("zero Scheme Color = %v, want white", got)
	}
}

func TestSolid(t *testing.T) {
	s := Solid("mine", terminal.RGB{R: 10, G: 200, B: 30})
	if s.Name() != "mine" || !s.Valid() {
		t.Fatalf("Solid = %+v", s)
	}
	for _, v := range []float64{-1, 0, 0.5, 1, 2} {
		if got := s.Color(v); got != (terminal.RGB{R: 10, G: 200, B: 30}) {
			t.Errorf("Color(%v) = %v", v, got)
		}
	}
	if s.Next().Name() != "rainbow" {
		t.Errorf("Next from solid = %s, want rainbow", s.Next().Name())
	}
}
