// Package largeimage parses tile-source metadata from a large-image
// server and derives the axis/channel structure the frame model needs.
//
// The package handles the three shapes multi-dimensional metadata arrives
// in:
//
//  1. IndexRange/IndexStride maps naming each axis explicitly
//  2. A bare frames list, from which ranges and strides are reconstructed
//  3. Single-frame sources, whose raster bands become the channel axis
//
// # Usage
//
//	parser := largeimage.NewParser()
//	desc, err := parser.ParseMetadata(metadataJSON)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	model, err := desc.NewFrameModel(frame.ModeComposite)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d frames, %d channels\n", desc.FrameCount, len(desc.Channels))
//
// # Metadata Format
//
// The server reports tile metadata as JSON from /item/{id}/tiles, e.g.:
//
//	{
//	    "sizeX": 20000, "sizeY": 15000,
//	    "tileWidth": 256, "tileHeight": 256, "levels": 8,
//	    "frames": [{"Frame": 0, "IndexC": 0, "IndexZ": 0}, ...],
//	    "IndexRange": {"IndexC": 3, "IndexZ": 10},
//	    "IndexStride": {"IndexC": 1, "IndexZ": 3},
//	    "channels": ["DAPI", "GFP", "RFP"],
//	    "channelmap": {"DAPI": 0, "GFP": 1, "RFP": 2}
//	}
//
// The raw wire structures live in the dto subpackage.
package largeimage
