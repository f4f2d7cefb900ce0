package voice

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Presence keeps track of the bot's own client and channel and reacts to
// moves: music codec where the bot is, voice codec where it left, and back
// to the default channel when nobody is listening.
type Presence struct {
	lock             sync.RWMutex
	host             Host
	defaultChannelId ChannelId

	ownClientId      ClientId
	currentChannelId ChannelId
	connected        bool
}

func NewPresence(host Host, defaultChannelId ChannelId) *Presence {
	return &Presence{
		host:             host,
		defaultChannelId: defaultChannelId,
	}
}

// Connected records the bot's client id and channel once the host reports an
// established connection.
func (p *Presence) Connected() error {
	ownClientId, err := p.host.OwnClientId()
	if err != nil {
		return err
	}
	channelId, err := p.host.ChannelOfClient(ownClientId)
	if err != nil {
		return err
	}

	p.lock.Lock()
	defer p.lock.Unlock()
	p.ownClientId = ownClientId
	p.currentChannelId = channelId
	p.connected = true

	logrus.Infof("Connected as client %d in channel %d (default channel %d)", ownClientId, channelId, p.defaultChannelId)
	return nil
}

func (p *Presence) OwnClientId() ClientId {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.ownClientId
}

func (p *Presence) CurrentChannelId() ChannelId {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.currentChannelId
}

func (p *Presence) SetDefaultChannelId(channelId ChannelId) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.defaultChannelId = channelId
}

// ClientMoved handles a client switching channels on its own.
func (p *Presence) ClientMoved(clientId ClientId, oldChannelId ChannelId, newChannelId ChannelId) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if !p.connected {
		return
	}
	if clientId == p.ownClientId {
		logrus.Infof("Moved from channel %d to channel %d", oldChannelId, newChannelId)
		p.switchCodecs(oldChannelId, newChannelId)
		p.currentChannelId = newChannelId
		return
	}
	p.leaveIfAlone()
}

// ClientMovedBy handles a client being moved by someone else.
func (p *Presence) ClientMovedBy(clientId ClientId, oldChannelId ChannelId, newChannelId ChannelId, moverId ClientId) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if !p.connected {
		return
	}
	if clientId == p.ownClientId {
		logrus.Infof("Moved by client %d from channel %d to channel %d", moverId, oldChannelId, newChannelId)
		p.currentChannelId = newChannelId
		p.switchCodecs(oldChannelId, newChannelId)
		return
	}
	p.leaveIfAlone()
}

// ClientKicked handles a client being kicked out of its channel.
func (p *Presence) ClientKicked(clientId ClientId, oldChannelId ChannelId, newChannelId ChannelId, kickerId ClientId) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if !p.connected {
		return
	}
	if clientId != p.ownClientId {
		p.leaveIfAlone()
		return
	}

	logrus.Infof("Kicked by client %d from channel %d", kickerId, oldChannelId)
	if oldChannelId != 0 {
		p.setCodec(oldChannelId, CodecOpusVoice)
	}
	p.currentChannelId = newChannelId
	p.moveToDefault()
	p.setCodec(p.defaultChannelId, CodecOpusMusic)
}

func (p *Presence) switchCodecs(oldChannelId ChannelId, newChannelId ChannelId) {
	if oldChannelId != 0 {
		p.setCodec(oldChannelId, CodecOpusVoice)
	}
	p.setCodec(newChannelId, CodecOpusMusic)
}

func (p *Presence) setCodec(channelId ChannelId, codec Codec) {
	if err := p.host.SetChannelCodec(channelId, codec); err != nil {
		logrus.Errorf("Unable to set channel %d codec to %s: %v", channelId, codec, err)
		return
	}
	logrus.Debugf("Channel %d codec set to %s", channelId, codec)
}

func (p *Presence) leaveIfAlone() {
	if p.currentChannelId == p.defaultChannelId {
		return
	}
	clients, err := p.host.ChannelClients(p.currentChannelId)
	if err != nil {
		logrus.Errorf("Unable to list clients of channel %d: %v", p.currentChannelId, err)
		return
	}
	if len(clients) != 1 {
		logrus.Debugf("%d clients in channel %d, staying", len(clients), p.currentChannelId)
		return
	}
	logrus.Infof("Alone in channel %d, moving to default channel %d", p.currentChannelId, p.defaultChannelId)
	p.moveToDefault()
}

func (p *Presence) moveToDefault() {
	if err := p.host.RequestClientMove(p.ownClientId, p.defaultChannelId); err != nil {
		logrus.Errorf("Unable to move to default channel %d: %v", p.defaultChannelId, err)
	}
}
