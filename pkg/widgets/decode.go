package widgets

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/lattice/pkg/domain"
)

// DecodeProperties decodes a config's property map into a typed struct
// using mapstructure tags. Numbers decode weakly: JSON-decoded float64
// values fill int fields when they are whole.
//
//	var props struct {
//	    Content string `mapstructure:"content"`
//	    Level   int    `mapstructure:"level"`
//	}
//	err := widgets.DecodeProperties(node.Config, &props)
func DecodeProperties(cfg domain.WidgetConfig, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("build property decoder: %w", err)
	}
	if err := decoder.Decode(cfg.Properties); err != nil {
		return fmt.Errorf("decode %s properties: %w", cfg.WidgetType, err)
	}
	return nil
}
