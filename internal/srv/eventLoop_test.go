package srv

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/jypelle/radiobot/internal/mpris"
	"github.com/jypelle/radiobot/internal/srv/chat"
	"github.com/jypelle/radiobot/internal/srv/config"
	"github.com/jypelle/radiobot/internal/srv/device"
	"github.com/jypelle/radiobot/internal/srv/event"
	"github.com/jypelle/radiobot/internal/srv/station"
	"github.com/jypelle/radiobot/internal/srv/voice"
)

type fakeVlc struct {
	trackCount int
	goTo       []dbus.ObjectPath
}

func (f *fakeVlc) Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	call := &dbus.Call{Method: method, Args: args}
	switch method {
	case mpris.PropertiesInterface + ".Get":
		if args[1] == "Tracks" {
			tracks := make([]dbus.ObjectPath, f.trackCount)
			for i := range tracks {
				tracks[i] = dbus.ObjectPath(fmt.Sprintf("/org/videolan/track/%d", i))
			}
			call.Body = []interface{}{dbus.MakeVariant(tracks)}
		} else {
			call.Err = dbus.Error{Name: "org.freedesktop.DBus.Error.InvalidArgs", Body: []interface{}{"no metadata"}}
		}
	case mpris.TrackListInterface + ".GoTo":
		f.goTo = append(f.goTo, args[0].(dbus.ObjectPath))
	}
	return call
}

func newTestServerApp(trackCount int) (*ServerApp, *fakeVlc, *bytes.Buffer) {
	vlc := &fakeVlc{trackCount: trackCount}
	out := &bytes.Buffer{}
	stations := station.Default()

	app := &ServerApp{
		ServerConfig: &config.ServerConfig{ServerParam: &config.ServerParam{}},
		playerDevice: device.NewPlayerWithClient(mpris.NewClient(vlc, "")),
		stations:     stations,
	}
	app.consoleDevice = device.NewConsole(strings.NewReader(""), out, "alice", 12304)
	app.presence = voice.NewPresence(app.consoleDevice, 12304)
	app.dispatcher = chat.NewDispatcher(app.consoleDevice, app.presence, app.playerDevice, stations)
	app.refreshTracks()
	app.handleVoiceEvent(event.VoiceEvent{Data: event.VoiceEventConnectedData{}})
	return app, vlc, out
}

func say(app *ServerApp, text string) {
	app.handleVoiceEvent(event.VoiceEvent{Data: event.VoiceEventTextMessageData{
		FromId:   2,
		FromName: "alice",
		Text:     text,
		Private:  true,
	}})
}

func TestTextMessageTunesStation(t *testing.T) {
	app, vlc, out := newTestServerApp(station.Default().Len())

	say(app, "!breaks")

	if len(vlc.goTo) != 1 || vlc.goTo[0] != "/org/videolan/track/1" {
		t.Errorf("GoTo calls = %v", vlc.goTo)
	}
	if !strings.Contains(out.String(), "Tuning into Breaks station!") {
		t.Errorf("reply = %q", out.String())
	}
}

func TestTextMessageSongUnavailable(t *testing.T) {
	app, _, out := newTestServerApp(3)

	say(app, "!song")

	if !strings.Contains(out.String(), "Sorry, got unexpected error while getting current song :c") {
		t.Errorf("reply = %q", out.String())
	}
}

func TestApiEventStationPlay(t *testing.T) {
	app, vlc, _ := newTestServerApp(3)

	ask := func(data interface{}) event.ApiResult {
		result := make(chan event.ApiResult, 1)
		app.handleApiEvent(event.ApiEvent{Result: result, Data: data})
		return <-result
	}

	if result := ask(event.ApiEventStationPlayData{Index: 2}); result.Err != nil {
		t.Errorf("play 2: %v", result.Err)
	}
	if result := ask(event.ApiEventStationPlayData{Index: 3}); !errors.Is(result.Err, mpris.ErrInvalidIndex) {
		t.Errorf("play 3: err = %v, want ErrInvalidIndex", result.Err)
	}
	if len(vlc.goTo) != 1 {
		t.Errorf("GoTo calls = %v", vlc.goTo)
	}

	vlc.trackCount = 5
	if result := ask(event.ApiEventTracksRefreshData{}); result.Err != nil || result.Value != 5 {
		t.Errorf("refresh = (%v, %v)", result.Value, result.Err)
	}
	if result := ask(event.ApiEventStationPlayData{Index: 3}); result.Err != nil {
		t.Errorf("play 3 after refresh: %v", result.Err)
	}

	result := ask(event.ApiEventStationListData{})
	if stations, ok := result.Value.([]station.Station); !ok || len(stations) != station.Default().Len() {
		t.Errorf("station list = %#v", result.Value)
	}
}

func TestApplyParamSwapsStations(t *testing.T) {
	app, vlc, out := newTestServerApp(2)

	app.applyParam(event.ConfigEventParamChangedData{ServerParam: &config.ServerParam{
		VoiceParam: config.VoiceParam{DefaultChannelId: 12304},
		Stations: []station.Station{
			{Key: "Ambient", Command: "!ambient"},
			{Key: "Trance", Command: "!trance"},
		},
	}})

	say(app, "!trance")
	if len(vlc.goTo) != 1 || vlc.goTo[0] != "/org/videolan/track/1" {
		t.Errorf("GoTo calls = %v", vlc.goTo)
	}
	if !strings.Contains(out.String(), "Tuning into Trance station!") {
		t.Errorf("reply = %q", out.String())
	}

	say(app, "!breaks")
	if !strings.Contains(out.String(), "Unknown command.") {
		t.Errorf("reply = %q", out.String())
	}
}
