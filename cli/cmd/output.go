package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/formula/lang"
)

// Output formats accepted by the --output flags.
const (
	outputNative = "native"
	outputJSON   = "json"
	outputYAML   = "yaml"
)

// record is the serialized outcome of evaluating one formula.
type record struct {
	Formula string     `json:"formula"         yaml:"formula"`
	Value   lang.Value `json:"value"           yaml:"value"`
	Error   string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// writeRecords writes records in the given format. The native format writes
// each value's display string, or nothing for failed records.
func writeRecords(w io.Writer, format string, indent int, records []record) error {
	switch format {
	case outputJSON:
		var (
			data []byte
			err  error
		)

		if indent > 0 {
			data, err = json.MarshalIndent(records, "", strings.Repeat(" ", indent))
		} else {
			data, err = json.Marshal(records)
		}

		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		_, err = fmt.Fprintf(w, "%s\n", data)

		return err

	case outputYAML:
		data, err := yaml.MarshalWithOptions(records, yaml.Indent(max(indent, 1)))
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(data)

		return err
	}

	for _, r := range records {
		if r.Error != "" {
			continue
		}

		if _, err := fmt.Fprintln(w, r.Value); err != nil {
			return err
		}
	}

	return nil
}
