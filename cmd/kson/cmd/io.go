package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/kson"
)

const indent = "    "

func addIOFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "input file (default stdin)")
	cmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolP("pretty", "p", false, "indent output")
}

func (a *app) read(cmd *cobra.Command) ([]byte, error) {
	path := a.v.GetString("input")
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return b, nil
}

func (a *app) write(cmd *cobra.Command, data []byte) error {
	data = append(data, '\n')
	path := a.v.GetString("output")
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// marshalJSON renders v compactly, or indented when --pretty is set.
func (a *app) marshalJSON(v any) ([]byte, error) {
	if !a.v.GetBool("pretty") {
		return kson.JSONDriver().Marshal(v)
	}
	var buf bytes.Buffer
	enc := gojson.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// prettyKSON indents an already serialized KSON document when --pretty is
// set.
func (a *app) prettyKSON(raw []byte) ([]byte, error) {
	if !a.v.GetBool("pretty") {
		return raw, nil
	}
	var buf bytes.Buffer
	if err := gojson.Indent(&buf, raw, "", indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
