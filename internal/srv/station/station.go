package station

import (
	"fmt"
	"strings"
)

// Index is the position of a station in the player's track list.
type Index int

const (
	ClubHits Index = iota
	Breaks
	SlapHouse
	House
	DeepOrganicHouse
	Bassline
	FutureGarage
	BassAndJackingHouse
	FutureBass
	ChillAndTropicalHouse
	ElectroSwing
	ClubDubstep
	VocalLounge
	VocalChillout
	LiquidDubstep
	LiquidDnB
	LatinHouse
	Jungle
	JazzHouse
	Dubstep
	Drumstep
	Chillout
	AtmosphericBreaks
	Chillstep
	DrumAndBass
	DJMixes
	Lounge
	Ambient
	FunkyHouse
	SpaceDreams
	ChilloutDreams
	DiscoHouse
)

type Station struct {
	Key     string `yaml:"key" json:"key"`
	Command string `yaml:"command" json:"command"`
	Title   string `yaml:"title" json:"title"`
}

// Table maps stations to track list positions. The order of the table is
// the order of the player's playlist.
type Table struct {
	stations  []Station
	byKey     map[string]Index
	byCommand map[string]Index
}

var defaultStations = []Station{
	ClubHits:              {Key: "ClubHits", Command: "!00", Title: "00s Club Hits"},
	Breaks:                {Key: "Breaks", Command: "!breaks", Title: "Breaks"},
	SlapHouse:             {Key: "SlapHouse", Command: "!slap_house", Title: "Slap House"},
	House:                 {Key: "House", Command: "!house", Title: "House"},
	DeepOrganicHouse:      {Key: "DeepOrganicHouse", Command: "!deep_organic_house", Title: "Deep Organic House"},
	Bassline:              {Key: "Bassline", Command: "!bassline", Title: "Bassline"},
	FutureGarage:          {Key: "FutureGarage", Command: "!future_garage", Title: "Future Garage"},
	BassAndJackingHouse:   {Key: "BassAndJackingHouse", Command: "!bnj", Title: "Bass & Jackin' House"},
	FutureBass:            {Key: "FutureBass", Command: "!fb", Title: "Future Bass"},
	ChillAndTropicalHouse: {Key: "ChillAndTropicalHouse", Command: "!cnth", Title: "Chill & Tropical House"},
	ElectroSwing:          {Key: "ElectroSwing", Command: "!ew", Title: "Electro Swing"},
	ClubDubstep:           {Key: "ClubDubstep", Command: "!cb", Title: "Club Dubstep"},
	VocalLounge:           {Key: "VocalLounge", Command: "!vl", Title: "Vocal Lounge"},
	VocalChillout:         {Key: "VocalChillout", Command: "!vc", Title: "Vocal Chillout"},
	LiquidDubstep:         {Key: "LiquidDubstep", Command: "!ld", Title: "Liquid Dubstep"},
	LiquidDnB:             {Key: "LiquidDnB", Command: "!ldnb", Title: "Liquid DnB"},
	LatinHouse:            {Key: "LatinHouse", Command: "!lh", Title: "Latin House"},
	Jungle:                {Key: "Jungle", Command: "!jung", Title: "Jungle"},
	JazzHouse:             {Key: "JazzHouse", Command: "!jh", Title: "Jazz House"},
	Dubstep:               {Key: "Dubstep", Command: "!dub", Title: "Dubstep"},
	Drumstep:              {Key: "Drumstep", Command: "!drum", Title: "Drumstep"},
	Chillout:              {Key: "Chillout", Command: "!chill", Title: "Chillout"},
	AtmosphericBreaks:     {Key: "AtmosphericBreaks", Command: "!ab", Title: "Atmospheric Breaks"},
	Chillstep:             {Key: "Chillstep", Command: "!cs", Title: "Chillstep"},
	DrumAndBass:           {Key: "DrumAndBass", Command: "!dnb", Title: "Drum and Bass"},
	DJMixes:               {Key: "DJMixes", Command: "!mix", Title: "DJ Mixes"},
	Lounge:                {Key: "Lounge", Command: "!lounge", Title: "Lounge"},
	Ambient:               {Key: "Ambient", Command: "!ambient", Title: "Ambient"},
	FunkyHouse:            {Key: "FunkyHouse", Command: "!funky", Title: "Funky House"},
	SpaceDreams:           {Key: "SpaceDreams", Command: "!space", Title: "Space Dreams"},
	ChilloutDreams:        {Key: "ChilloutDreams", Command: "!cd", Title: "Chillout Dreams"},
	DiscoHouse:            {Key: "DiscoHouse", Command: "!disco", Title: "Disco House"},
}

// Default returns the built-in station table.
func Default() *Table {
	table, err := NewTable(defaultStations)
	if err != nil {
		panic(err)
	}
	return table
}

func NewTable(stations []Station) (*Table, error) {
	table := &Table{
		stations:  make([]Station, len(stations)),
		byKey:     make(map[string]Index, len(stations)),
		byCommand: make(map[string]Index, len(stations)),
	}
	copy(table.stations, stations)

	for i, s := range table.stations {
		if s.Key == "" || s.Command == "" {
			return nil, fmt.Errorf("station %d: key and command are required", i)
		}
		if !strings.HasPrefix(s.Command, "!") {
			return nil, fmt.Errorf("station %s: command %q must start with '!'", s.Key, s.Command)
		}
		if _, ok := table.byKey[s.Key]; ok {
			return nil, fmt.Errorf("station %s: duplicate key", s.Key)
		}
		if _, ok := table.byCommand[s.Command]; ok {
			return nil, fmt.Errorf("station %s: duplicate command %s", s.Key, s.Command)
		}
		if s.Title == "" {
			table.stations[i].Title = s.Key
		}
		table.byKey[s.Key] = Index(i)
		table.byCommand[s.Command] = Index(i)
	}
	return table, nil
}

func (t *Table) Len() int {
	return len(t.stations)
}

func (t *Table) Stations() []Station {
	stations := make([]Station, len(t.stations))
	copy(stations, t.stations)
	return stations
}

func (t *Table) Get(index Index) (Station, bool) {
	if index < 0 || int(index) >= len(t.stations) {
		return Station{}, false
	}
	return t.stations[index], true
}

// IndexOf returns the position bound to a station key.
func (t *Table) IndexOf(key string) (Index, bool) {
	index, ok := t.byKey[key]
	return index, ok
}

func (t *Table) ByCommand(command string) (Index, Station, bool) {
	index, ok := t.byCommand[command]
	if !ok {
		return 0, Station{}, false
	}
	return index, t.stations[index], true
}

// Unreachable lists the stations whose position is beyond trackCount.
func (t *Table) Unreachable(trackCount int) []Station {
	if trackCount >= len(t.stations) {
		return nil
	}
	if trackCount < 0 {
		trackCount = 0
	}
	unreachable := make([]Station, len(t.stations)-trackCount)
	copy(unreachable, t.stations[trackCount:])
	return unreachable
}
