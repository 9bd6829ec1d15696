// Package schema loads owner classes from CUE and instantiates them as
// dynamic nodes.
//
// A class lists its properties in declaration order; each property gets the
// next id starting at 1, which is what the change log and the wire format
// use to identify it:
//
//	class: Rect: property: {
//		width:  {kind: "float", flags: ["readable", "writable", "logged", "animatable"]}
//		height: {kind: "float", default: 1}
//		align:  {kind: "enum", enum: ["start", "center", "end"]}
//		label:  {kind: "text", default: "untitled"}
//	}
//
// Omitted flags mean readable, writable and logged. Properties of a Node use
// accessor storage over a slot per property.
package schema
