package device

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/jypelle/radiobot/internal/srv/event"
	"github.com/jypelle/radiobot/internal/srv/voice"
	"github.com/sirupsen/logrus"
)

const (
	consoleBotId      voice.ClientId  = 1
	consoleUserId     voice.ClientId  = 2
	consoleLobbyId    voice.ChannelId = 1
	consoleServerName                 = "console"
)

// Console simulates a voice server with two clients, the bot and a local
// user typing on stdin. Lines are private messages from the user, except
// for the slash commands:
//
//	/move <channel>   the user switches channel
//	/drag <channel>   the user moves the bot
//	/kick             the user kicks the bot out of its channel
//	/who              show who is where
type Console struct {
	lock         sync.RWMutex
	eventChannel chan event.VoiceEvent

	in       io.Reader
	out      io.Writer
	userName string

	clientChannel map[voice.ClientId]voice.ChannelId
	channelCodec  map[voice.ChannelId]voice.Codec

	sendEvent bool
}

func NewConsole(in io.Reader, out io.Writer, userName string, startChannelId voice.ChannelId) *Console {
	return &Console{
		eventChannel: make(chan event.VoiceEvent),
		in:           in,
		out:          out,
		userName:     userName,
		clientChannel: map[voice.ClientId]voice.ChannelId{
			consoleBotId:  startChannelId,
			consoleUserId: startChannelId,
		},
		channelCodec: make(map[voice.ChannelId]voice.Codec),
		sendEvent:    true,
	}
}

func (d *Console) Start() {
	logrus.Infof("Start console device")

	go func() {
		d.emit(event.VoiceEvent{Data: event.VoiceEventConnectedData{}})

		scanner := bufio.NewScanner(d.in)
		for scanner.Scan() {
			d.interpret(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			logrus.Warnf("Console input closed: %v", err)
		}
	}()
}

func (d *Console) StopSendingEvent() {
	logrus.Infof("Stop sending events for console device")

	d.lock.Lock()
	defer d.lock.Unlock()

	d.sendEvent = false
}

func (d *Console) EventChannel() chan event.VoiceEvent {
	return d.eventChannel
}

func (d *Console) emit(ev event.VoiceEvent) {
	d.lock.RLock()
	sendEvent := d.sendEvent
	d.lock.RUnlock()

	if sendEvent {
		d.eventChannel <- ev
	}
}

func (d *Console) interpret(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if !strings.HasPrefix(line, "/") {
		d.emit(event.VoiceEvent{Data: event.VoiceEventTextMessageData{
			FromId:   consoleUserId,
			FromName: d.userName,
			Text:     line,
			Private:  true,
		}})
		return
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/move", "/drag":
		if len(fields) != 2 {
			d.printf("usage: %s <channel>", fields[0])
			return
		}
		channelId, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			d.printf("invalid channel %q", fields[1])
			return
		}
		if fields[0] == "/move" {
			oldChannelId := d.setChannel(consoleUserId, voice.ChannelId(channelId))
			d.emit(event.VoiceEvent{Data: event.VoiceEventClientMoveData{
				ClientId:     consoleUserId,
				OldChannelId: oldChannelId,
				NewChannelId: voice.ChannelId(channelId),
			}})
		} else {
			oldChannelId := d.setChannel(consoleBotId, voice.ChannelId(channelId))
			d.emit(event.VoiceEvent{Data: event.VoiceEventClientMovedByData{
				ClientId:     consoleBotId,
				OldChannelId: oldChannelId,
				NewChannelId: voice.ChannelId(channelId),
				MoverId:      consoleUserId,
			}})
		}
	case "/kick":
		oldChannelId := d.setChannel(consoleBotId, consoleLobbyId)
		d.emit(event.VoiceEvent{Data: event.VoiceEventClientKickedData{
			ClientId:     consoleBotId,
			OldChannelId: oldChannelId,
			NewChannelId: consoleLobbyId,
			KickerId:     consoleUserId,
		}})
	case "/who":
		d.lock.RLock()
		botChannelId := d.clientChannel[consoleBotId]
		userChannelId := d.clientChannel[consoleUserId]
		botCodec, botCodecSet := d.channelCodec[botChannelId]
		d.lock.RUnlock()
		codec := "unchanged"
		if botCodecSet {
			codec = botCodec.String()
		}
		d.printf("bot in channel %d (codec %s), %s in channel %d", botChannelId, codec, d.userName, userChannelId)
	default:
		d.printf("unknown console command %s", fields[0])
	}
}

func (d *Console) setChannel(clientId voice.ClientId, channelId voice.ChannelId) voice.ChannelId {
	d.lock.Lock()
	defer d.lock.Unlock()

	oldChannelId := d.clientChannel[clientId]
	d.clientChannel[clientId] = channelId
	return oldChannelId
}

func (d *Console) printf(format string, args ...interface{}) {
	d.lock.Lock()
	defer d.lock.Unlock()
	fmt.Fprintf(d.out, "["+consoleServerName+"] "+format+"\n", args...)
}

func (d *Console) OwnClientId() (voice.ClientId, error) {
	return consoleBotId, nil
}

func (d *Console) ChannelOfClient(clientId voice.ClientId) (voice.ChannelId, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	channelId, ok := d.clientChannel[clientId]
	if !ok {
		return 0, fmt.Errorf("client %d is not connected", clientId)
	}
	return channelId, nil
}

func (d *Console) ChannelClients(channelId voice.ChannelId) ([]voice.ClientId, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	var clients []voice.ClientId
	for clientId, clientChannelId := range d.clientChannel {
		if clientChannelId == channelId {
			clients = append(clients, clientId)
		}
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i] < clients[j] })
	return clients, nil
}

func (d *Console) SetChannelCodec(channelId voice.ChannelId, codec voice.Codec) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.channelCodec[channelId] = codec
	return nil
}

func (d *Console) ChannelCodec(channelId voice.ChannelId) (voice.Codec, bool) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	codec, ok := d.channelCodec[channelId]
	return codec, ok
}

// RequestClientMove moves the client and reports it back asynchronously, the
// way a server confirms a move request.
func (d *Console) RequestClientMove(clientId voice.ClientId, channelId voice.ChannelId) error {
	if _, err := d.ChannelOfClient(clientId); err != nil {
		return err
	}
	oldChannelId := d.setChannel(clientId, channelId)
	go d.emit(event.VoiceEvent{Data: event.VoiceEventClientMoveData{
		ClientId:     clientId,
		OldChannelId: oldChannelId,
		NewChannelId: channelId,
	}})
	return nil
}

func (d *Console) SendPrivateText(to voice.ClientId, text string) error {
	if to != consoleUserId {
		return fmt.Errorf("client %d is not connected", to)
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	_, err := fmt.Fprintf(d.out, "[radiobot -> %s] %s\n", d.userName, text)
	return err
}
