package cmdutil

import (
	"reflect"
	"strings"
	"unicode"
)

// RecordOptions controls how RowToRecord renders column values.
type RecordOptions struct {
	// SliceSeparator joins string slices into one column. Defaults to ",".
	SliceSeparator string
	// Nullable lists columns whose empty values are written as NULL.
	Nullable map[string]bool
}

// RowToRecord converts a flat table row struct into a column map for the
// datastore. Columns are named by the `db` tag when present and by the
// snake_cased field name otherwise; `db:"-"` skips a field.
func RowToRecord[T any](row T, opts RecordOptions) map[string]any {
	record := make(map[string]any)
	v := reflect.ValueOf(row)
	if v.Kind() != reflect.Struct {
		return record
	}

	sep := opts.SliceSeparator
	if sep == "" {
		sep = ","
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		column := columnName(field)
		if column == "" {
			continue
		}

		value := columnValue(v.Field(i), sep)
		if opts.Nullable[column] && value == "" {
			record[column] = nil
			continue
		}
		record[column] = value
	}
	return record
}

func columnName(field reflect.StructField) string {
	tag, ok := field.Tag.Lookup("db")
	switch {
	case tag == "-":
		return ""
	case ok && tag != "":
		return tag
	}
	return toSnakeCase(field.Name)
}

func columnValue(value reflect.Value, sep string) any {
	if value.Kind() == reflect.Slice && value.Type().Elem().Kind() == reflect.String {
		items := make([]string, value.Len())
		for i := range items {
			items[i] = value.Index(i).String()
		}
		return strings.Join(items, sep)
	}
	return value.Interface()
}

// toSnakeCase lowercases a Go field name, inserting underscores at word
// boundaries. Acronyms stay together: SectionID becomes section_id.
func toSnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(runes) + 4)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
