package tool

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// decodeArgs maps loosely typed oracle arguments onto a struct. Unknown keys
// are rejected.
func decodeArgs(tool string, args map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("tool=%s: build decoder: %w", tool, err)
	}
	if err := decoder.Decode(args); err != nil {
		return fmt.Errorf("tool=%s: invalid arguments: %w", tool, err)
	}
	return nil
}
