package largeimage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"frameview/internal/frame"
	"frameview/internal/largeimage/dto"
)

// defaultChannelColors is the false-color cycle assigned to named channels
// that carry no color of their own. Deliberately starts with blue: the
// first channel of fluorescence stacks is conventionally a nuclear stain.
var defaultChannelColors = []string{
	"#0000ff", "#00ff00", "#ff0000", "#ff00ff", "#ffff00", "#00ffff",
}

// interpretationColors maps a band interpretation to the palette used when
// building default channels for single-frame sources.
var interpretationColors = map[string]string{
	"red":   "#ff0000",
	"green": "#00ff00",
	"blue":  "#0000ff",
	"gray":  "#ffffff",
}

// BandInfo is parsed per-band information: interpretation plus source
// value range when the metadata supplies one.
type BandInfo struct {
	// Interpretation is the band's color interpretation, e.g. "red" or
	// "gray". Empty when the source does not report one.
	Interpretation string

	// Min and Max are the band's source value range, when known.
	Min *float64
	Max *float64
}

// ImageDescription is the parsed, validated view of a tile source: its
// pixel dimensions plus the axis and channel structure the frame model is
// built from.
type ImageDescription struct {
	// SizeX and SizeY are the level-0 pixel dimensions.
	SizeX int
	SizeY int

	// TileWidth, TileHeight and Levels describe the tile pyramid.
	TileWidth  int
	TileHeight int
	Levels     int

	// Magnification is the native magnification, 0 when unknown.
	Magnification float64

	// FrameCount is the number of linear frames (at least 1).
	FrameCount int

	// Axes are the derived axis descriptors; always at least one.
	Axes []frame.AxisDescriptor

	// Channels are the derived channel entries; always at least one.
	Channels []frame.ChannelInfo

	// Bands is the per-band information keyed by 1-based band number.
	Bands map[int]BandInfo
}

// NewFrameModel builds a validated frame model for this image in the
// given selection mode.
func (d *ImageDescription) NewFrameModel(mode frame.Mode) (*frame.Model, error) {
	return frame.New(d.Axes, d.Channels, mode)
}

// Parser turns tile-source metadata JSON into an ImageDescription.
//
// The server reports multi-dimensional structure three different ways
// depending on the source; the parser normalizes all of them:
//
//  1. IndexRange/IndexStride maps — used directly.
//  2. A frames list without stride maps — ranges and strides are derived
//     by scanning the list.
//  3. Neither (single-frame sources) — the raster bands are treated as a
//     channel axis of stride 1, so band compositing reuses the same model.
//
// Example usage:
//
//	parser := largeimage.NewParser()
//	desc, err := parser.ParseMetadata(body)
//	if err != nil {
//	    return err
//	}
//	model, err := desc.NewFrameModel(frame.ModeComposite)
type Parser struct{}

// NewParser creates a new metadata Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseMetadata parses and validates tile-source metadata JSON.
//
// Returns an error if:
//   - The JSON is malformed
//   - The pixel dimensions are missing or non-positive
//   - The axis structure is internally inconsistent
func (p *Parser) ParseMetadata(data []byte) (*ImageDescription, error) {
	var meta dto.JSONTileMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse tile metadata: %w", err)
	}

	if meta.SizeX <= 0 || meta.SizeY <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", meta.SizeX, meta.SizeY)
	}

	desc := &ImageDescription{
		SizeX:         meta.SizeX,
		SizeY:         meta.SizeY,
		TileWidth:     meta.TileWidth,
		TileHeight:    meta.TileHeight,
		Levels:        meta.Levels,
		Magnification: meta.Magnification,
		FrameCount:    len(meta.Frames),
		Bands:         parseBands(meta.Bands),
	}
	if desc.FrameCount == 0 {
		desc.FrameCount = 1
	}

	axes, err := deriveAxes(&meta)
	if err != nil {
		return nil, err
	}
	channels, err := deriveChannels(&meta, axes, desc.Bands)
	if err != nil {
		return nil, err
	}
	desc.Axes = axes
	desc.Channels = channels

	return desc, nil
}

func parseBands(raw map[string]dto.JSONBandInfo) map[int]BandInfo {
	bands := make(map[int]BandInfo, len(raw))
	for key, info := range raw {
		number, err := strconv.Atoi(key)
		if err != nil || number < 1 {
			continue
		}
		bands[number] = BandInfo{
			Interpretation: info.Interpretation,
			Min:            info.Min,
			Max:            info.Max,
		}
	}
	return bands
}

// deriveAxes normalizes the three metadata shapes into axis descriptors.
func deriveAxes(meta *dto.JSONTileMetadata) ([]frame.AxisDescriptor, error) {
	if len(meta.IndexRange) > 0 {
		return axesFromRangeMaps(meta)
	}
	if len(meta.Frames) > 1 {
		return axesFromFrameList(meta.Frames)
	}

	// Single-frame source: model the raster bands as a channel axis so
	// band compositing reuses the frame machinery.
	channelCount := len(meta.Channels)
	if channelCount == 0 {
		channelCount = len(meta.Bands)
	}
	if channelCount == 0 {
		channelCount = 1
	}
	return []frame.AxisDescriptor{{Axis: frame.AxisC, Range: channelCount, Stride: 1}}, nil
}

func axesFromRangeMaps(meta *dto.JSONTileMetadata) ([]frame.AxisDescriptor, error) {
	names := make([]string, 0, len(meta.IndexRange))
	for name := range meta.IndexRange {
		names = append(names, name)
	}
	sort.Strings(names)

	axes := make([]frame.AxisDescriptor, 0, len(names))
	for _, name := range names {
		axis, err := frame.ParseAxis(name)
		if err != nil {
			return nil, err
		}
		rng := meta.IndexRange[name]
		if rng < 1 {
			return nil, fmt.Errorf("axis %s: invalid range %d", name, rng)
		}
		stride, ok := meta.IndexStride[name]
		if !ok {
			stride = strideFromFrames(meta.Frames, name)
		}
		axes = append(axes, frame.AxisDescriptor{Axis: axis, Range: rng, Stride: stride})
	}
	return axes, nil
}

// axesFromFrameList reconstructs ranges and strides by scanning the frames
// list when the source reports frames without index maps.
func axesFromFrameList(frames []dto.JSONFrame) ([]frame.AxisDescriptor, error) {
	var axes []frame.AxisDescriptor
	for _, name := range []string{"IndexC", "IndexZ", "IndexT", "IndexXY"} {
		maxIndex := 0
		for _, f := range frames {
			if v := f.Index(name); v > maxIndex {
				maxIndex = v
			}
		}
		if maxIndex == 0 {
			continue
		}
		axis, err := frame.ParseAxis(name)
		if err != nil {
			return nil, err
		}
		axes = append(axes, frame.AxisDescriptor{
			Axis:   axis,
			Range:  maxIndex + 1,
			Stride: strideFromFrames(frames, name),
		})
	}
	if len(axes) == 0 {
		// frames exist but only one axis varies implicitly
		return []frame.AxisDescriptor{{Axis: frame.AxisZ, Range: len(frames), Stride: 1}}, nil
	}
	return axes, nil
}

// strideFromFrames locates the first frame where the axis index becomes 1;
// that frame's position is the axis's weight in the linear frame number.
func strideFromFrames(frames []dto.JSONFrame, axis string) int {
	for i, f := range frames {
		if f.Index(axis) == 1 {
			return i
		}
	}
	return 1
}

// deriveChannels builds the channel list from channel metadata, falling
// back to band interpretations and finally to generic band names.
func deriveChannels(meta *dto.JSONTileMetadata, axes []frame.AxisDescriptor, bands map[int]BandInfo) ([]frame.ChannelInfo, error) {
	if len(meta.Channels) > 0 {
		channels := make([]frame.ChannelInfo, 0, len(meta.Channels))
		for i, name := range meta.Channels {
			number := i
			if mapped, ok := meta.ChannelMap[name]; ok {
				number = mapped
			}
			channels = append(channels, frame.ChannelInfo{
				Name:       name,
				Number:     number,
				Enabled:    true,
				FalseColor: defaultChannelColors[i%len(defaultChannelColors)],
				Min:        frame.DefaultMin,
				Max:        frame.DefaultMax,
			})
		}
		return channels, nil
	}

	// No named channels: synthesize one channel per channel-axis position
	// (or per raster band), colored by interpretation when known. Channel
	// numbers must stay within the channel axis range.
	count := 0
	for _, a := range axes {
		if a.Axis == frame.AxisC {
			count = a.Range
		}
	}
	if count == 0 {
		count = len(bands)
		if count == 0 {
			count = 1
		}
	}

	channels := make([]frame.ChannelInfo, 0, count)
	for i := 0; i < count; i++ {
		info := frame.ChannelInfo{
			Name:    fmt.Sprintf("Band %d", i+1),
			Number:  i,
			Enabled: true,
			Min:     frame.DefaultMin,
			Max:     frame.DefaultMax,
		}
		if band, ok := bands[i+1]; ok {
			if color, known := interpretationColors[band.Interpretation]; known {
				info.FalseColor = color
			}
			// alpha bands decorate, they are not viewed on their own
			if band.Interpretation == "alpha" {
				info.Enabled = false
			}
		}
		channels = append(channels, info)
	}
	return channels, nil
}
