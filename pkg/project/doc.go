// Package project reads and writes platecut project files.
//
// A [Project] is everything needed to reproduce a configuration: the ordered
// plate dimensions (as the decimal strings users typed), the socket groups,
// and the active plate. Projects are exchanged as JSON or TOML; the format is
// picked from the file extension.
//
// # JSON Format
//
//	{
//	  "plates": [{"width": "151.5", "height": "40"}],
//	  "sockets": [
//	    {"id": "…", "plate_index": 0, "count": 2, "orientation": "horizontal",
//	     "anchor_x_cm": 20, "anchor_y_cm": 12.5}
//	  ],
//	  "active_index": 0
//	}
//
// # Legacy Records
//
// Older exports stored socket positions as display strings
// ("leftDistance": "20.0") next to optional numeric anchors ("anchorX"), with
// camelCase keys. [Read] accepts both shapes and [NormalizeLegacy] resolves
// each record to one numeric anchor: a numeric anchor always wins, and the
// strings are only parsed when it is missing. Unparseable strings become 0,
// the same rule plate dimensions follow. Files are always written in the
// current shape.
//
// # Quotes
//
// [NewQuote] prices a set of groups at [PricePerSocket] per cutout.
package project
