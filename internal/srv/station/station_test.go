package station

import (
	"testing"
)

func TestDefaultOrder(t *testing.T) {
	table := Default()

	if table.Len() != int(DiscoHouse)+1 {
		t.Fatalf("table has %d stations, want %d", table.Len(), int(DiscoHouse)+1)
	}

	for _, tt := range []struct {
		key   string
		index Index
	}{
		{"ClubHits", ClubHits},
		{"FutureGarage", FutureGarage},
		{"DJMixes", DJMixes},
		{"DiscoHouse", DiscoHouse},
	} {
		got, ok := table.IndexOf(tt.key)
		if !ok || got != tt.index {
			t.Errorf("IndexOf(%s) = (%d, %v), want %d", tt.key, got, ok, tt.index)
		}
	}
}

func TestByCommand(t *testing.T) {
	table := Default()

	index, s, ok := table.ByCommand("!bnj")
	if !ok {
		t.Fatal("!bnj not found")
	}
	if index != BassAndJackingHouse || s.Title != "Bass & Jackin' House" {
		t.Errorf("got (%d, %+v)", index, s)
	}

	if _, _, ok := table.ByCommand("!nope"); ok {
		t.Error("!nope should not resolve")
	}
}

func TestNewTableValidation(t *testing.T) {
	tests := []struct {
		name     string
		stations []Station
	}{
		{"missing command", []Station{{Key: "A"}}},
		{"missing bang", []Station{{Key: "A", Command: "a"}}},
		{"duplicate key", []Station{{Key: "A", Command: "!a"}, {Key: "A", Command: "!b"}}},
		{"duplicate command", []Station{{Key: "A", Command: "!a"}, {Key: "B", Command: "!a"}}},
	}
	for _, tt := range tests {
		if _, err := NewTable(tt.stations); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestNewTableDefaultsTitle(t *testing.T) {
	table, err := NewTable([]Station{{Key: "Jazz", Command: "!jazz"}})
	if err != nil {
		t.Fatal(err)
	}
	s, ok := table.Get(0)
	if !ok || s.Title != "Jazz" {
		t.Errorf("got (%+v, %v)", s, ok)
	}
	if _, ok := table.Get(1); ok {
		t.Error("Get(1) should fail")
	}
}

func TestUnreachable(t *testing.T) {
	table := Default()

	if got := table.Unreachable(table.Len()); len(got) != 0 {
		t.Errorf("got %d unreachable with full list", len(got))
	}
	got := table.Unreachable(int(DiscoHouse))
	if len(got) != 1 || got[0].Key != "DiscoHouse" {
		t.Errorf("got %+v", got)
	}
	if got := table.Unreachable(0); len(got) != table.Len() {
		t.Errorf("got %d unreachable with empty list", len(got))
	}
}
