package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/rawbytedev/binmap"
	"github.com/rawbytedev/binmap/pkg/schemafile"
)

// parseAssignment splits name=value and converts value to the Go type the
// field's format expects. Accessor values stay strings.
func parseAssignment(k *schemafile.Kind, arg string) (string, any, error) {
	name, raw, ok := strings.Cut(arg, "=")
	if !ok || name == "" {
		return "", nil, errors.Errorf("invalid assignment %q, want name=value", arg)
	}
	if _, ok := k.Accessor(name); ok {
		return name, raw, nil
	}
	spec, ok := k.Schema.Lookup(name)
	if !ok {
		return name, raw, nil
	}
	var (
		v   any
		err error
	)
	switch spec.Format.Kind() {
	case binmap.KindInt:
		v, err = strconv.ParseInt(raw, 0, 64)
	case binmap.KindUint:
		v, err = strconv.ParseUint(raw, 0, 64)
	case binmap.KindFloat:
		v, err = strconv.ParseFloat(raw, 64)
	case binmap.KindBool:
		v, err = strconv.ParseBool(raw)
	case binmap.KindChar, binmap.KindString, binmap.KindPascal:
		v = []byte(raw)
	default:
		v = raw
	}
	if err != nil {
		return "", nil, errors.Wrapf(err, "field %s", name)
	}
	return name, v, nil
}

// fieldsOf returns the record's data fields and accessor values in
// declaration order.
func fieldsOf(k *schemafile.Kind, r *binmap.Record) ([]string, []any, error) {
	var (
		names  []string
		values []any
	)
	for _, name := range k.Schema.DataFields() {
		v, err := r.Get(name)
		if err != nil {
			return nil, nil, err
		}
		names = append(names, name)
		values = append(values, v)
	}
	for _, acc := range k.Accessors() {
		v, err := acc.Get(r)
		if err != nil {
			// codes outside the label table are still shown through the field
			v = nil
		}
		names = append(names, acc.Name())
		values = append(values, v)
	}
	return names, values, nil
}

func printText(w io.Writer, k *schemafile.Kind, r *binmap.Record) error {
	names, values, err := fieldsOf(k, r)
	if err != nil {
		return err
	}
	for i, name := range names {
		switch v := values[i].(type) {
		case []byte:
			fmt.Fprintf(w, "%s=%q\n", name, v)
		case nil:
			fmt.Fprintf(w, "%s=?\n", name)
		default:
			fmt.Fprintf(w, "%s=%v\n", name, v)
		}
	}
	return nil
}

func printJSON(w io.Writer, k *schemafile.Kind, r *binmap.Record) error {
	names, values, err := fieldsOf(k, r)
	if err != nil {
		return err
	}
	obj := make(map[string]any, len(names))
	for i, name := range names {
		if b, ok := values[i].([]byte); ok {
			obj[name] = string(b)
		} else {
			obj[name] = values[i]
		}
	}
	return json.NewEncoder(w).Encode(obj)
}
