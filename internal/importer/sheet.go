// Package importer turns spreadsheet exports into candidate leaf records
// and reads interaction event scripts.
package importer

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cast"

	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

// Sheet is the result of parsing one export. Records and parse errors are
// independent: a row with a bad cell still yields a record so the
// validator can point at it.
type Sheet struct {
	Records []skills.Leaf
	Errors  []string
}

// headers maps accepted column names to fields. Spreadsheets exported from
// the Japanese template use the localized names.
var headers = map[string]skills.Field{
	"category":       skills.FieldCategory,
	"カテゴリ":           skills.FieldCategory,
	"大カテゴリ":          skills.FieldCategory,
	"item":           skills.FieldItem,
	"項目":             skills.FieldItem,
	"sub_category":   skills.FieldSubCategory,
	"subcategory":    skills.FieldSubCategory,
	"中カテゴリ":          skills.FieldSubCategory,
	"サブカテゴリ":         skills.FieldSubCategory,
	"small_category": skills.FieldSmallCategory,
	"smallcategory":  skills.FieldSmallCategory,
	"小カテゴリ":          skills.FieldSmallCategory,
	"name":           skills.FieldName,
	"名前":             skills.FieldName,
	"スキル名":           skills.FieldName,
	"description":    skills.FieldDescription,
	"説明":             skills.FieldDescription,
	"phase":          skills.FieldPhase,
	"フェーズ":           skills.FieldPhase,
	"display_order":  skills.FieldDisplayOrder,
	"displayorder":   skills.FieldDisplayOrder,
	"表示順":            skills.FieldDisplayOrder,
}

type document struct {
	Rows []map[string]any `yaml:"rows"`
}

// ParseFile parses the sheet at path.
func ParseFile(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	sheet, err := Parse(f)
	if err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return sheet, nil
}

// Parse reads a YAML sheet: a document with a rows list whose entries map
// column names to loosely typed cells. A malformed document is an error;
// malformed cells are reported in Sheet.Errors.
func Parse(r io.Reader) (*Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	sheet := &Sheet{Records: make([]skills.Leaf, 0, len(doc.Rows)), Errors: []string{}}
	for i, row := range doc.Rows {
		leaf, errs := parseRow(i+1, row)
		sheet.Records = append(sheet.Records, leaf)
		sheet.Errors = append(sheet.Errors, errs...)
	}
	return sheet, nil
}

func parseRow(n int, row map[string]any) (skills.Leaf, []string) {
	var (
		leaf skills.Leaf
		errs []string
	)

	columns := make([]string, 0, len(row))
	for column := range row {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	for _, column := range columns {
		cell := row[column]
		field, ok := headers[normalizeHeader(column)]
		if !ok {
			errs = append(errs, fmt.Sprintf("row %d: unknown column %q", n, column))
			continue
		}

		switch field {
		case skills.FieldPhase:
			phase, err := integerCell(cell)
			if err != nil {
				// Phase 0 is never valid; the validator flags the record.
				errs = append(errs, fmt.Sprintf("row %d: phase %v is not an integer", n, cell))
				phase = 0
			}
			if phase < 0 {
				errs = append(errs, fmt.Sprintf("row %d: phase %d is negative", n, phase))
				phase = 0
			}
			leaf.Phase = skills.Phase(phase)
		case skills.FieldDisplayOrder:
			if blankCell(cell) {
				continue
			}
			order, err := integerCell(cell)
			if err != nil {
				errs = append(errs, fmt.Sprintf("row %d: display order %v is not an integer", n, cell))
				continue
			}
			leaf.DisplayOrder = skills.IntPtr(order)
		default:
			s, err := cast.ToStringE(cell)
			if err != nil {
				errs = append(errs, fmt.Sprintf("row %d: %s: %v", n, field, err))
				continue
			}
			// Set only fails for phase and display order.
			_ = leaf.Set(field, strings.TrimSpace(s))
		}
	}

	return leaf, errs
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

func blankCell(cell any) bool {
	if cell == nil {
		return true
	}
	s, err := cast.ToStringE(cell)
	return err == nil && strings.TrimSpace(s) == ""
}

// integerCell accepts ints, whole floats and numeric strings.
func integerCell(cell any) (int, error) {
	switch v := cell.(type) {
	case nil:
		return 0, fmt.Errorf("empty cell")
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("fractional value %v", v)
		}
		return int(v), nil
	case float32:
		if float64(v) != math.Trunc(float64(v)) {
			return 0, fmt.Errorf("fractional value %v", v)
		}
		return int(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, fmt.Errorf("empty cell")
		}
		if strings.ContainsAny(s, ".eE") {
			return 0, fmt.Errorf("not an integer %q", s)
		}
		return cast.ToIntE(strings.TrimLeft(s, "0") + zeroIfEmpty(s))
	default:
		return cast.ToIntE(v)
	}
}

// zeroIfEmpty keeps "0" and "000" parseable after leading zeros are trimmed.
func zeroIfEmpty(s string) string {
	if strings.TrimLeft(s, "0") == "" {
		return "0"
	}
	return ""
}
