package cmdutil

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Render writes v as json or yaml when --output asks for it and reports
// whether it did. Otherwise the caller renders its table.
func Render(w io.Writer, v interface{}) (bool, error) {
	switch format := viper.GetString("output"); format {
	case "", "table":
		return false, nil

	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)

	case "yaml":
		// decode the json into a node tree so that the field names follow the
		// json tags and decimal scalars keep their exact text
		data, err := json.Marshal(v)
		if err != nil {
			return true, err
		}

		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return true, err
		}
		blockStyle(&node)

		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return true, enc.Encode(&node)

	default:
		return true, fmt.Errorf("unsupported output format %q", format)
	}
}

func blockStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		blockStyle(child)
	}
}
