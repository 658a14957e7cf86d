package dto

// JSONTileMetadata represents the deserialized tile-source metadata from
// the server's /item/{id}/tiles endpoint.
//
// Multi-frame sources carry a frames list plus IndexRange/IndexStride maps
// describing each dimension; multi-channel sources additionally carry
// channel names and a channelmap from name to channel-axis position.
// Single-frame sources omit all of those and describe their raster bands
// in Bands.
type JSONTileMetadata struct {
	SizeX         int     `json:"sizeX"`
	SizeY         int     `json:"sizeY"`
	TileWidth     int     `json:"tileWidth"`
	TileHeight    int     `json:"tileHeight"`
	Levels        int     `json:"levels"`
	Magnification float64 `json:"magnification"`

	// Frames lists one entry per linear frame, in frame order.
	Frames []JSONFrame `json:"frames"`

	// IndexRange maps axis names ("IndexC", "IndexZ", ...) to axis
	// lengths; IndexStride maps the same names to their weight in the
	// linear frame number.
	IndexRange  map[string]int `json:"IndexRange"`
	IndexStride map[string]int `json:"IndexStride"`

	// Channels names each channel-axis position; ChannelMap is the
	// inverse, from name to position.
	Channels   []string       `json:"channels"`
	ChannelMap map[string]int `json:"channelmap"`

	// Bands describes the raster bands of one frame, keyed by 1-based
	// band number (JSON object keys, so strings).
	Bands map[string]JSONBandInfo `json:"bands"`
}

// JSONFrame is one entry of the frames list. Axis positions are reported
// per well-known axis; Frame is the linear frame number.
type JSONFrame struct {
	Frame   int `json:"Frame"`
	IndexC  int `json:"IndexC"`
	IndexZ  int `json:"IndexZ"`
	IndexT  int `json:"IndexT"`
	IndexXY int `json:"IndexXY"`
}

// Index returns the frame's position on the given axis name.
func (f JSONFrame) Index(axis string) int {
	switch axis {
	case "IndexC":
		return f.IndexC
	case "IndexZ":
		return f.IndexZ
	case "IndexT":
		return f.IndexT
	case "IndexXY":
		return f.IndexXY
	}
	return 0
}

// JSONBandInfo carries per-band statistics and interpretation from the
// source, e.g. {"interpretation": "red", "min": 0, "max": 255}.
type JSONBandInfo struct {
	Interpretation string   `json:"interpretation"`
	Min            *float64 `json:"min"`
	Max            *float64 `json:"max"`
}
