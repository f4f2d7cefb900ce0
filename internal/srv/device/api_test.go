package device

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jypelle/radiobot/apimodel"
	"github.com/jypelle/radiobot/internal/mpris"
	"github.com/jypelle/radiobot/internal/srv/config"
	"github.com/jypelle/radiobot/internal/srv/event"
	"github.com/jypelle/radiobot/internal/srv/station"
)

const testApiKey = "secret"

// newTestApi starts an Api whose requests are answered by answer, in place
// of the server event loop.
func newTestApi(t *testing.T, answer func(data interface{}) event.ApiResult) *Api {
	t.Helper()
	api := NewApi(&config.ServerConfig{
		ConfigDir: t.TempDir(),
		ServerParam: &config.ServerParam{
			ApiParam: config.ApiParam{Enabled: true, SslPort: 8443, ApiKey: testApiKey},
		},
	})
	done := make(chan struct{})
	t.Cleanup(func() { close(done) })
	go func() {
		for {
			select {
			case ev := <-api.EventChannel():
				ev.Result <- answer(ev.Data)
			case <-done:
				return
			}
		}
	}()
	return api
}

func serve(api *Api, method, path, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)
	return rec
}

func TestApiRequiresKey(t *testing.T) {
	api := newTestApi(t, func(data interface{}) event.ApiResult {
		t.Errorf("unexpected event %#v", data)
		return event.ApiResult{}
	})

	for _, apiKey := range []string{"", "wrong"} {
		rec := serve(api, http.MethodGet, "/api/is_alive", apiKey)
		if rec.Code != http.StatusForbidden {
			t.Errorf("key %q: status = %d, want %d", apiKey, rec.Code, http.StatusForbidden)
		}
	}

	rec := serve(api, http.MethodGet, "/api/is_alive", testApiKey)
	if rec.Code != http.StatusOK {
		t.Errorf("is_alive status = %d", rec.Code)
	}
}

func TestApiStations(t *testing.T) {
	api := newTestApi(t, func(data interface{}) event.ApiResult {
		if _, ok := data.(event.ApiEventStationListData); !ok {
			t.Errorf("unexpected event %#v", data)
		}
		return event.ApiResult{Value: station.Default().Stations()}
	})

	rec := serve(api, http.MethodGet, "/api/stations", testApiKey)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var list []apimodel.Station
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != station.Default().Len() {
		t.Fatalf("got %d stations, want %d", len(list), station.Default().Len())
	}
	if list[1].Index != 1 || list[1].Command != "!breaks" {
		t.Errorf("second station = %+v", list[1])
	}
}

func TestApiStationPlay(t *testing.T) {
	tests := []struct {
		path   string
		err    error
		status int
	}{
		{"/api/station/play/3", nil, http.StatusOK},
		{"/api/station/play/40", mpris.ErrInvalidIndex, http.StatusNotFound},
		{"/api/station/play/2", &mpris.BusError{Method: "GoTo", Name: "org.freedesktop.DBus.Error.ServiceUnknown"}, http.StatusBadGateway},
		{"/api/station/play/abc", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			api := newTestApi(t, func(data interface{}) event.ApiResult {
				if _, ok := data.(event.ApiEventStationPlayData); !ok {
					t.Errorf("unexpected event %#v", data)
				}
				return event.ApiResult{Err: tt.err}
			})
			rec := serve(api, http.MethodPost, tt.path, testApiKey)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestApiStationPlayPassesIndex(t *testing.T) {
	got := make(chan station.Index, 1)
	api := newTestApi(t, func(data interface{}) event.ApiResult {
		got <- data.(event.ApiEventStationPlayData).Index
		return event.ApiResult{}
	})

	serve(api, http.MethodPost, "/api/station/play/7", testApiKey)
	if index := <-got; index != 7 {
		t.Errorf("index = %d", index)
	}
}

func TestApiSong(t *testing.T) {
	tests := []struct {
		name   string
		result event.ApiResult
		status int
		song   string
	}{
		{"playing", event.ApiResult{Value: "Artist - Title"}, http.StatusOK, "Artist - Title"},
		{"unavailable", event.ApiResult{Err: fmt.Errorf("no song")}, http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestApi(t, func(data interface{}) event.ApiResult { return tt.result })
			rec := serve(api, http.MethodGet, "/api/song", testApiKey)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status != http.StatusOK {
				return
			}
			var nowPlaying apimodel.NowPlaying
			if err := json.NewDecoder(rec.Body).Decode(&nowPlaying); err != nil {
				t.Fatal(err)
			}
			if nowPlaying.Song != tt.song {
				t.Errorf("song = %q, want %q", nowPlaying.Song, tt.song)
			}
		})
	}
}

func TestApiTracksRefresh(t *testing.T) {
	api := newTestApi(t, func(data interface{}) event.ApiResult {
		return event.ApiResult{Value: 33}
	})

	rec := serve(api, http.MethodPost, "/api/tracks/refresh", testApiKey)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var trackList apimodel.TrackList
	if err := json.NewDecoder(rec.Body).Decode(&trackList); err != nil {
		t.Fatal(err)
	}
	if trackList.TrackCount != 33 {
		t.Errorf("track count = %d", trackList.TrackCount)
	}

	if rec := serve(api, http.MethodGet, "/api/tracks/refresh", testApiKey); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
