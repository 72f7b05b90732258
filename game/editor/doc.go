// Package editor holds the state of one interactive tile-map editing
// session.
//
// A Session owns a tilemap.Map and tracks the selected tile, the active
// layer, the camera and the grid overlay toggle. Edits never fail: pointer
// positions outside the map are clamped to the nearest cell, and layer and
// tile cycling wrap around.
//
// Each frame the shell calls Update with the input gathered for that tick,
// then Render to obtain what to draw:
//
//	sess, err := editor.New(m, editor.DefaultOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res := sess.Update(input)
//	if res.SaveRequested {
//		os.WriteFile(path, []byte(tilemap.Encode(sess.Map())), 0644)
//	}
//	frame := sess.Render()
//
// A Session is not safe for concurrent use.
package editor
