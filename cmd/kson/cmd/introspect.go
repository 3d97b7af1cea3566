package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/reoring/kson"
	"github.com/reoring/kson/introspect"
)

const (
	formatKSON = "kson"
	formatJSON = "json"
	formatYAML = "yaml"
)

func newIntrospectCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "introspect",
		Short: "Infer schemas from an example JSON document",
		Example: `kson introspect -i users.json -s users
kson introspect -i users.json --format yaml -o users.schema.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.introspect(cmd)
		},
	}
	addIOFlags(cmd)
	cmd.Flags().StringP("schema-id", "s", "", "prefix for generated schema ids (default "+introspect.DefaultPrefix+")")
	cmd.Flags().BoolP("json", "j", false, "write schemas as keyed JSON (same as --format json)")
	cmd.Flags().String("format", formatKSON, "schema output format: kson, json or yaml")
	return cmd
}

func (a *app) introspect(cmd *cobra.Command) error {
	format := a.v.GetString("format")
	if a.v.GetBool("json") {
		format = formatJSON
	}
	raw, err := a.read(cmd)
	if err != nil {
		return err
	}
	res, err := introspect.DetectJSON(raw, a.v.GetString("schema-id"))
	if err != nil {
		return err
	}
	a.log.Debug("schemas detected", zap.String("root", res.Root), zap.Int("count", len(res.Schemas)))

	var out []byte
	switch format {
	case formatKSON:
		e := a.newEngine()
		if out, err = e.Stringify(res.Schemas, kson.ManyMarker+kson.BootstrapSchemaID); err != nil {
			return err
		}
		out, err = a.prettyKSON(out)
	case formatJSON:
		out, err = a.marshalJSON(res.Schemas)
	case formatYAML:
		out, err = yaml.Marshal(res.Schemas)
		out = trimNewline(out)
	default:
		return fmt.Errorf("unknown format %q: use kson, json or yaml", format)
	}
	if err != nil {
		return err
	}
	return a.write(cmd, out)
}

func trimNewline(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\n' {
		return b[:n-1]
	}
	return b
}
