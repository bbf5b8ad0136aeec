package mapping

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/muni-rrhh/dashboard/internal/domain/entity"
)

// DateLayout is the canonical form of a coerced date value
const DateLayout = "2006-01-02"

// Serial day numbers accepted as Excel dates (1954-10-03 .. 2119-01-10)
const (
	minExcelSerial = 20000
	maxExcelSerial = 80000
)

var dateLayouts = []string{
	DateLayout,
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02/01/06",
	"2006/01/02",
}

// RowValues extracts the mapped fields of one data row and coerces each by
// its data type. Dates come back as YYYY-MM-DD, numbers without trailing
// zeros. Empty required values and failed coercions are errors.
func RowValues(t entity.Template, report HeaderReport, row []string) (map[string]string, error) {
	values := make(map[string]string, len(t.Mappings))
	for _, m := range t.Mappings {
		idx, ok := report.Matched[m.Field]
		if !ok {
			continue
		}

		raw := ""
		if idx < len(row) {
			raw = strings.TrimSpace(row[idx])
		}
		if raw == "" {
			if m.Required {
				return nil, fmt.Errorf("column %q is empty", m.Column)
			}
			continue
		}

		v, err := coerce(raw, m.DataType)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", m.Column, err)
		}
		values[m.Field] = v
	}
	return values, nil
}

func coerce(raw, dataType string) (string, error) {
	switch dataType {
	case entity.DataTypeNumber:
		f, err := ParseNumber(raw)
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	case entity.DataTypeDate:
		d, err := ParseDate(raw)
		if err != nil {
			return "", err
		}
		return d.Format(DateLayout), nil
	}
	return raw, nil
}

// ParseNumber accepts both 1234.5 and the local 1.234,5 notation
func ParseNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	return f, nil
}

// ParseDate accepts Excel serial day numbers and the usual day-first layouts
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial >= minExcelSerial && serial <= maxExcelSerial {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("%q is not a date", raw)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a date", raw)
}

// ToAgent builds an agent from coerced agentes dataset values
func ToAgent(values map[string]string) (*entity.Agent, error) {
	agent := &entity.Agent{
		DNI:              values[FieldDNI],
		Name:             values[FieldName],
		Dependency:       values[FieldDependency],
		Secretariat:      values[FieldSecretariat],
		Grouping:         values[FieldGrouping],
		Level:            values[FieldLevel],
		EmploymentStatus: values[FieldEmploymentStatus],
	}
	if v := values[FieldHireDate]; v != "" {
		d, err := time.Parse(DateLayout, v)
		if err != nil {
			return nil, fmt.Errorf("fecha_ingreso: %w", err)
		}
		agent.HireDate = &d
	}
	return agent, nil
}
