package largeimage

import (
	"testing"

	"frameview/internal/frame"
)

const multiFrameMetadata = `{
	"sizeX": 20000, "sizeY": 15000,
	"tileWidth": 256, "tileHeight": 256, "levels": 8,
	"magnification": 40.0,
	"frames": [
		{"Frame": 0, "IndexC": 0, "IndexZ": 0},
		{"Frame": 1, "IndexC": 1, "IndexZ": 0},
		{"Frame": 2, "IndexC": 2, "IndexZ": 0},
		{"Frame": 3, "IndexC": 0, "IndexZ": 1},
		{"Frame": 4, "IndexC": 1, "IndexZ": 1},
		{"Frame": 5, "IndexC": 2, "IndexZ": 1}
	],
	"IndexRange": {"IndexC": 3, "IndexZ": 2},
	"IndexStride": {"IndexC": 1, "IndexZ": 3},
	"channels": ["DAPI", "GFP", "RFP"],
	"channelmap": {"DAPI": 0, "GFP": 1, "RFP": 2}
}`

func TestParseMetadata_MultiFrame(t *testing.T) {
	desc, err := NewParser().ParseMetadata([]byte(multiFrameMetadata))
	if err != nil {
		t.Fatalf("ParseMetadata failed: %v", err)
	}

	if desc.SizeX != 20000 || desc.SizeY != 15000 {
		t.Errorf("size = %dx%d, want 20000x15000", desc.SizeX, desc.SizeY)
	}
	if desc.FrameCount != 6 {
		t.Errorf("FrameCount = %d, want 6", desc.FrameCount)
	}
	if len(desc.Axes) != 2 {
		t.Fatalf("axis count = %d, want 2", len(desc.Axes))
	}
	if len(desc.Channels) != 3 {
		t.Fatalf("channel count = %d, want 3", len(desc.Channels))
	}
	if desc.Channels[1].Name != "GFP" || desc.Channels[1].Number != 1 {
		t.Errorf("channel[1] = %+v, want GFP/1", desc.Channels[1])
	}
	if desc.Channels[0].FalseColor == "" {
		t.Error("named channels should receive a default false color")
	}

	m, err := desc.NewFrameModel(frame.ModeComposite)
	if err != nil {
		t.Fatalf("NewFrameModel failed: %v", err)
	}
	if m.MaxFrame() != 5 {
		t.Errorf("MaxFrame = %d, want 5", m.MaxFrame())
	}
	n, err := m.SetAxisCurrent(frame.AxisZ, 1)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("frame = %d, want 3", n)
	}
}

func TestParseMetadata_FrameListOnly(t *testing.T) {
	// No IndexRange/IndexStride; structure must be recovered from the
	// frames list itself.
	data := `{
		"sizeX": 512, "sizeY": 512, "tileWidth": 256, "tileHeight": 256, "levels": 2,
		"frames": [
			{"Frame": 0, "IndexZ": 0, "IndexT": 0},
			{"Frame": 1, "IndexZ": 1, "IndexT": 0},
			{"Frame": 2, "IndexZ": 0, "IndexT": 1},
			{"Frame": 3, "IndexZ": 1, "IndexT": 1}
		]
	}`
	desc, err := NewParser().ParseMetadata([]byte(data))
	if err != nil {
		t.Fatalf("ParseMetadata failed: %v", err)
	}

	var z, tt *frame.AxisDescriptor
	for i := range desc.Axes {
		switch desc.Axes[i].Axis {
		case frame.AxisZ:
			z = &desc.Axes[i]
		case frame.AxisT:
			tt = &desc.Axes[i]
		}
	}
	if z == nil || z.Range != 2 || z.Stride != 1 {
		t.Errorf("IndexZ axis = %+v, want range 2 stride 1", z)
	}
	if tt == nil || tt.Range != 2 || tt.Stride != 2 {
		t.Errorf("IndexT axis = %+v, want range 2 stride 2", tt)
	}

	if _, err := desc.NewFrameModel(frame.ModeSingle); err != nil {
		t.Errorf("NewFrameModel failed: %v", err)
	}
}

func TestParseMetadata_SingleFrameBands(t *testing.T) {
	data := `{
		"sizeX": 1024, "sizeY": 768, "tileWidth": 256, "tileHeight": 256, "levels": 3,
		"bands": {
			"1": {"interpretation": "red", "min": 0, "max": 255},
			"2": {"interpretation": "green", "min": 0, "max": 255},
			"3": {"interpretation": "blue", "min": 0, "max": 255},
			"4": {"interpretation": "alpha"}
		}
	}`
	desc, err := NewParser().ParseMetadata([]byte(data))
	if err != nil {
		t.Fatalf("ParseMetadata failed: %v", err)
	}

	if desc.FrameCount != 1 {
		t.Errorf("FrameCount = %d, want 1", desc.FrameCount)
	}
	if len(desc.Axes) != 1 || desc.Axes[0].Axis != frame.AxisC || desc.Axes[0].Range != 4 {
		t.Fatalf("axes = %+v, want single IndexC range 4", desc.Axes)
	}
	if len(desc.Channels) != 4 {
		t.Fatalf("channel count = %d, want 4", len(desc.Channels))
	}
	if desc.Channels[0].FalseColor != "#ff0000" {
		t.Errorf("band 1 color = %q, want #ff0000", desc.Channels[0].FalseColor)
	}
	if desc.Channels[3].Enabled {
		t.Error("alpha band should start disabled")
	}
	if got := desc.Bands[2].Interpretation; got != "green" {
		t.Errorf("band 2 interpretation = %q, want green", got)
	}
}

func TestParseMetadata_ChannelsBeyondAxisRange(t *testing.T) {
	// Two channel-axis positions but three named channels: parsing keeps
	// the names, and the inconsistency is rejected when the model is
	// built.
	data := `{
		"sizeX": 64, "sizeY": 64, "tileWidth": 64, "tileHeight": 64, "levels": 1,
		"frames": [{"Frame": 0, "IndexC": 0}, {"Frame": 1, "IndexC": 1}],
		"IndexRange": {"IndexC": 2},
		"IndexStride": {"IndexC": 1},
		"channels": ["a", "b", "c"]
	}`
	desc, err := NewParser().ParseMetadata([]byte(data))
	if err != nil {
		t.Fatalf("ParseMetadata failed: %v", err)
	}
	if len(desc.Channels) != 3 {
		t.Fatalf("channel count = %d, want 3", len(desc.Channels))
	}
	if _, err := desc.NewFrameModel(frame.ModeComposite); err == nil {
		t.Error("expected error for channel numbers beyond the axis range")
	}
}

func TestParseMetadata_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed json", `{"sizeX": `},
		{"missing dimensions", `{"tileWidth": 256}`},
		{"negative size", `{"sizeX": -1, "sizeY": 10}`},
		{"bad axis name", `{"sizeX": 1, "sizeY": 1, "IndexRange": {"Zed": 2}}`},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.ParseMetadata([]byte(tt.data)); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}
