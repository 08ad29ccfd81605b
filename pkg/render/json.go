package render

import "encoding/json"

// JSON renders the scene as indented JSON.
func JSON(s Scene) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
