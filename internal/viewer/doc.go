// Package viewer coordinates one viewer session against a large-image
// server.
//
// A Session ties the other packages together: it fetches an item's tile
// metadata, builds the frame model from it, renders composites through the
// style renderer, and decorates item listings with annotation counts.
//
//	session := viewer.NewSession(settings, func(e viewer.ProgressEvent) {
//	    log.Println(e.Message)
//	})
//	if err := session.Open(ctx, itemID); err != nil {
//	    return err
//	}
//
//	m := session.Model()
//	m.SetAxisCurrent(frame.AxisZ, 4)
//	m.ToggleChannelEnabled("DAPI", true)
//
//	img, err := session.RenderComposite(ctx)
//
// Progress is reported through a callback with severity levels, the same
// pattern the CLI prints and the TUI displays.
package viewer
