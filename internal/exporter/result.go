package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	apperrors "finsight/internal/errors"
)

// WriteResultCSV writes a tabular metric result to a CSV file. Accepted
// shapes are a flat struct (one data row) or a slice of flat structs; column
// names come from the json tags in field order. Nil pointers and
// non-finite numbers become empty fields. Nested results such as a P&L
// statement are rejected; export those as JSON instead.
func WriteResultCSV(path string, result interface{}) error {
	header, rows, err := tabulate(result)
	if err != nil {
		return err
	}

	slog.Info("writing metric result to CSV",
		slog.String("path", path),
		slog.Int("rows", len(rows)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory for CSV output", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create CSV file", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return apperrors.NewStorageError("failed to write CSV header row", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return apperrors.NewStorageError("failed to write CSV data row", err)
		}
	}
	return nil
}

func tabulate(result interface{}) ([]string, [][]string, error) {
	v := reflect.ValueOf(result)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, nil, apperrors.NewValidationError("nil result cannot be exported", nil)
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		header, err := structHeader(v.Type())
		if err != nil {
			return nil, nil, err
		}
		return header, [][]string{structRow(v)}, nil
	case reflect.Slice:
		elem := v.Type().Elem()
		if elem.Kind() != reflect.Struct {
			return nil, nil, apperrors.NewValidationError(
				fmt.Sprintf("result of type %s is not tabular; export it as JSON", v.Type()), nil)
		}
		header, err := structHeader(elem)
		if err != nil {
			return nil, nil, err
		}
		rows := make([][]string, v.Len())
		for i := 0; i < v.Len(); i++ {
			rows[i] = structRow(v.Index(i))
		}
		return header, rows, nil
	default:
		return nil, nil, apperrors.NewValidationError(
			fmt.Sprintf("result of type %s is not tabular; export it as JSON", v.Type()), nil)
	}
}

func structHeader(t reflect.Type) ([]string, error) {
	header := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := jsonName(field)
		if name == "" {
			continue
		}
		if !flatKind(field.Type) {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("result field %s is nested; export it as JSON", field.Name), nil)
		}
		header = append(header, name)
	}
	return header, nil
}

func structRow(v reflect.Value) []string {
	row := make([]string, 0, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		if jsonName(v.Type().Field(i)) == "" {
			continue
		}
		row = append(row, formatCell(v.Field(i)))
	}
	return row
}

func jsonName(field reflect.StructField) string {
	if !field.IsExported() {
		return ""
	}
	tag := field.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name := strings.Split(tag, ",")[0]
	if name == "" {
		return field.Name
	}
	return name
}

// flatKind reports whether a field renders as a single CSV cell.
func flatKind(t reflect.Type) bool {
	if t == reflect.TypeOf(time.Time{}) {
		return true
	}
	if t.Kind() == reflect.Pointer {
		return flatKind(t.Elem())
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func formatCell(v reflect.Value) string {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if t, ok := v.Interface().(time.Time); ok {
		return t.Format("2006-01-02")
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return ""
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
