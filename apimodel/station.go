package apimodel

type Station struct {
	Index   int    `json:"index"`
	Key     string `json:"key"`
	Command string `json:"command"`
	Title   string `json:"title"`
}

type NowPlaying struct {
	Song string `json:"song"`
}

type TrackList struct {
	TrackCount int `json:"track_count"`
}
