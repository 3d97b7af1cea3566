package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/kson"
)

type conversion struct {
	name    string
	short   string
	inKSON  bool
	outKSON bool
}

var conversions = []conversion{
	{name: "j2k", short: "Encode JSON as KSON", outKSON: true},
	{name: "k2j", short: "Decode KSON to JSON", inKSON: true},
	{name: "k2k", short: "Re-encode KSON with another schema", inKSON: true, outKSON: true},
	{name: "j2j", short: "Reformat JSON"},
}

func newConvertCommands(a *app) []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(conversions))
	for _, c := range conversions {
		c := c
		cmd := &cobra.Command{
			Use:     c.name + " [schema files...]",
			Short:   c.short,
			Example: "kson " + c.name + " schemas.json -i in.json -o out.json",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.convert(cmd, c, args)
			},
		}
		addIOFlags(cmd)
		cmd.Flags().StringP("schema-id", "s", "", "input schema id (required when the schema files have no single top-level schema)")
		cmd.Flags().String("out-schema-id", "", "output schema id (default: the input schema id)")
		cmd.Flags().StringSlice("schemas", nil, "additional schema files")
		cmds = append(cmds, cmd)
	}
	return cmds
}

func (a *app) convert(cmd *cobra.Command, c conversion, files []string) error {
	e := a.newEngine()
	var inID, outID string
	var explicit bool
	if c.inKSON || c.outKSON {
		var err error
		if inID, outID, explicit, err = a.loadSchemas(e, files); err != nil {
			return err
		}
	}

	raw, err := a.read(cmd)
	if err != nil {
		return err
	}

	var data any
	if c.inKSON {
		tree, err := kson.JSONDriver().Unmarshal(raw)
		if err != nil {
			return fmt.Errorf("parse input: %w", err)
		}
		// An explicit --schema-id means the input has no header slot.
		if explicit {
			data, err = e.Decode(tree, inID)
		} else {
			data, err = e.Decode(tree)
		}
		if err != nil {
			return err
		}
	} else if data, err = kson.JSONDriver().Unmarshal(raw); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}

	var out []byte
	if c.outKSON {
		if out, err = e.Stringify(data, outID); err != nil {
			return err
		}
		out, err = a.prettyKSON(out)
	} else {
		out, err = a.marshalJSON(data)
	}
	if err != nil {
		return err
	}
	a.log.Debug("converted", zap.String("command", c.name), zap.String("in", inID), zap.String("out", outID), zap.Int("bytes", len(out)))
	return a.write(cmd, out)
}

// loadSchemas registers the schema files and picks the input and output
// schema ids. explicit reports whether the input id came from the user
// rather than top-schema detection.
func (a *app) loadSchemas(e *kson.Engine, files []string) (inID, outID string, explicit bool, err error) {
	files = append(files, a.v.GetStringSlice("schemas")...)
	for _, f := range files {
		if err := e.LoadSchemaFile(f); err != nil {
			return "", "", false, err
		}
	}
	inID = a.v.GetString("schema-id")
	explicit = inID != ""
	if inID == "" && len(files) > 0 {
		top, err := kson.FindTopSchema(e.Schemas())
		if err != nil {
			return "", "", false, fmt.Errorf("--schema-id required: %w", err)
		}
		inID = top
	}
	if inID == "" {
		return "", "", false, fmt.Errorf("--schema-id required")
	}
	outID = a.v.GetString("out-schema-id")
	if outID == "" {
		outID = inID
	}
	for _, c := range []struct{ flag, id string }{{"--schema-id", inID}, {"--out-schema-id", outID}} {
		if _, ok := e.Schema(c.id); !ok {
			return "", "", false, fmt.Errorf("%s %q not found in: %s", c.flag, c.id, strings.Join(e.SchemaIDs(), ", "))
		}
	}
	return inID, outID, explicit, nil
}
