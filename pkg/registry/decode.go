package registry

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/tomsilver/streamspec/pkg/domain"
)

// DecodeArgs binds input objects onto a typed struct. Parameters map to
// struct fields by their name without the '?' prefix, so a stream declared
// with :inputs (?b ?r) decodes into:
//
//	type PoseArgs struct {
//		Block  any `mapstructure:"b"`
//		Region any `mapstructure:"r"`
//	}
//
// Payload-free objects decode as their symbolic name.
func DecodeArgs(params []domain.Param, inputs []domain.Object, out any) error {
	if len(params) != len(inputs) {
		return fmt.Errorf("decode args: %w: %d parameters, %d objects", domain.ErrArityMismatch, len(params), len(inputs))
	}

	raw := make(map[string]any, len(inputs))
	for i, p := range params {
		key := strings.TrimPrefix(string(p), "?")
		if inputs[i].Value != nil {
			raw[key] = inputs[i].Value
		} else {
			raw[key] = inputs[i].Name
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("decode args: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("decode args: %w", err)
	}
	return nil
}
