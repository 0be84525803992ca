// Package model defines the intermediate representation shared by every
// extractor: the [Unit] an extractor emits before windowing, and the [Table]
// and [Matrix] types used to recover row/column shape from flat files, office
// documents and PDF pages.
//
// # Units
//
// A [Unit] is one undivided piece of content, tagged with its [Kind]:
//
//	unit := model.NewTextUnit(pageText, model.Int(3))
//
// Table units carry their column names and are serialized as one
// index-prefixed record per line:
//
//	0: {"name": "alice", "age": "31"}
//	1: {"name": "bob", "age": null}
//
// # Geometry
//
// PDF table detection works on [TextFragment] and [Line] values placed in
// PDF user space (origin bottom-left, Y increasing upwards), summarized by
// [BBox] and [TableGrid].
package model
