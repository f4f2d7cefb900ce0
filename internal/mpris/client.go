// Package mpris talks to a media player over the MPRIS D-Bus interfaces:
// it lists the player's tracks, jumps to one of them and reads what is
// currently playing.
package mpris

import (
	"errors"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBusName       = "org.mpris.MediaPlayer2.vlc"
	DefaultObjectPath    = "/org/mpris/MediaPlayer2"
	DefaultNowPlayingKey = "vlc:nowplaying"

	TrackListInterface  = "org.mpris.MediaPlayer2.TrackList"
	PlayerInterface     = "org.mpris.MediaPlayer2.Player"
	PropertiesInterface = "org.freedesktop.DBus.Properties"

	propertiesGet = PropertiesInterface + ".Get"
	trackListGoTo = TrackListInterface + ".GoTo"
)

// Caller issues one blocking method call on the remote player object.
// dbus.BusObject satisfies it.
type Caller interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Client holds the player object and the last enumerated track list.
// It is safe for concurrent use: calls and track list replacement are
// serialized.
type Client struct {
	lock          sync.Mutex
	object        Caller
	nowPlayingKey string
	tracks        []TrackHandle
}

func NewClient(object Caller, nowPlayingKey string) *Client {
	if nowPlayingKey == "" {
		nowPlayingKey = DefaultNowPlayingKey
	}
	return &Client{
		object:        object,
		nowPlayingKey: nowPlayingKey,
	}
}

// Connect builds a client for the player published under busName/path on conn.
// The connection stays owned by the caller.
func Connect(conn *dbus.Conn, busName string, path string, nowPlayingKey string) (*Client, error) {
	if busName == "" {
		busName = DefaultBusName
	}
	if path == "" {
		path = DefaultObjectPath
	}
	objectPath := dbus.ObjectPath(path)
	if !objectPath.IsValid() {
		return nil, fmt.Errorf("invalid object path %q", path)
	}
	return NewClient(conn.Object(busName, objectPath), nowPlayingKey), nil
}

func (c *Client) call(method string, args ...interface{}) ([]interface{}, error) {
	call := c.object.Call(method, 0, args...)
	if call == nil {
		return nil, newBusError(method, errors.New("no reply"))
	}
	if call.Err != nil {
		return nil, newBusError(method, call.Err)
	}
	return call.Body, nil
}

func (c *Client) getProperty(iface string, property string) (Value, error) {
	body, err := c.call(propertiesGet, iface, property)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty reply to %s(%s, %s)", ErrUnexpectedShape, propertiesGet, iface, property)
	}
	return FromWire(body[0]), nil
}

// EnumerateTracks reads the player's Tracks property and replaces the track
// list with it. On failure the track list is left empty.
func (c *Client) EnumerateTracks() ([]TrackHandle, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.tracks = nil

	reply, err := c.getProperty(TrackListInterface, "Tracks")
	if err != nil {
		return nil, err
	}
	tracks, err := TrackHandles(reply)
	if err != nil {
		return nil, fmt.Errorf("decode %s.Tracks: %w", TrackListInterface, err)
	}
	c.tracks = tracks

	logrus.Debugf("Enumerated %d tracks", len(tracks))
	return c.snapshot(), nil
}

// GotoTrack asks the player to jump to the track at index in the last
// enumerated list.
func (c *Client) GotoTrack(index int) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if index < 0 || index >= len(c.tracks) {
		return fmt.Errorf("%w: %d (track count %d)", ErrInvalidIndex, index, len(c.tracks))
	}

	handle := c.tracks[index]
	if _, err := c.call(trackListGoTo, dbus.ObjectPath(handle)); err != nil {
		return err
	}
	logrus.Infof("Changed to track %d (%s)", index, handle)
	return nil
}

// NowPlaying returns the now-playing string from the player's metadata.
// Bus failures, malformed replies and a missing key all report false.
func (c *Client) NowPlaying() (string, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	reply, err := c.getProperty(PlayerInterface, "Metadata")
	if err != nil {
		var busErr *BusError
		if errors.As(err, &busErr) {
			logrus.Warnf("Unable to read player metadata: %v", err)
		} else {
			logrus.Debugf("Unable to read player metadata: %v", err)
		}
		return "", false
	}

	song, err := LookupString(reply, c.nowPlayingKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			logrus.Infof("No %q in player metadata", c.nowPlayingKey)
		} else {
			logrus.Debugf("Unable to decode player metadata: %v", err)
		}
		return "", false
	}
	return song, true
}

func (c *Client) Tracks() []TrackHandle {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.snapshot()
}

func (c *Client) TrackCount() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.tracks)
}

func (c *Client) snapshot() []TrackHandle {
	tracks := make([]TrackHandle, len(c.tracks))
	copy(tracks, c.tracks)
	return tracks
}
