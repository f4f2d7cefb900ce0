package voice

type ClientId uint16

type ChannelId uint64

type Codec int

const (
	CodecOpusVoice Codec = iota
	CodecOpusMusic
)

func (c Codec) String() string {
	switch c {
	case CodecOpusVoice:
		return "opus voice"
	case CodecOpusMusic:
		return "opus music"
	default:
		return "unknown"
	}
}

// Host is the voice server connection the bot lives in.
type Host interface {
	OwnClientId() (ClientId, error)
	ChannelOfClient(clientId ClientId) (ChannelId, error)
	ChannelClients(channelId ChannelId) ([]ClientId, error)
	// SetChannelCodec changes and flushes the codec of a channel.
	SetChannelCodec(channelId ChannelId, codec Codec) error
	RequestClientMove(clientId ClientId, channelId ChannelId) error
	SendPrivateText(to ClientId, text string) error
}
