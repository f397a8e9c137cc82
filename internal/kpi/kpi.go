// Package kpi turns an uploaded workbook of shift reports into summary
// totals. Nothing here touches the database: each upload is a
// stateless parse-and-aggregate pass.
package kpi

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var requiredColumns = []string{"timestamp", "user_email", "shift", "loads_count"}

type Record struct {
	Timestamp  string
	UserEmail  string
	Shift      string
	LoadsCount float64
}

type ShiftTotal struct {
	Shift      string
	TotalLoads float64
}

type UserTotal struct {
	UserEmail  string
	TotalLoads float64
}

type Summary struct {
	ByShift []ShiftTotal
	ByUser  []UserTotal
}

// Process parses the workbook and aggregates it in one step.
func Process(r io.Reader) (*Summary, error) {
	records, err := Parse(r)
	if err != nil {
		return nil, err
	}
	summary := Aggregate(records)
	return &summary, nil
}

// Parse reads the first worksheet. Column names are matched after
// trimming and lowercasing; a missing required column aborts with an
// error naming exactly what is absent. Rows lacking user_email or a
// shift outside {A,B,C} (after uppercasing) are dropped.
func Parse(r io.Reader) ([]Record, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no worksheet found")
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("worksheet is empty")
	}

	columns := map[string]int{}
	for idx, header := range rows[0] {
		columns[normalizeHeader(header)] = idx
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var records []Record
	for _, row := range rows[1:] {
		email := cellValue(row, columns["user_email"])
		shift := strings.ToUpper(cellValue(row, columns["shift"]))
		if email == "" {
			continue
		}
		switch shift {
		case "A", "B", "C":
		default:
			continue
		}

		records = append(records, Record{
			Timestamp:  cellValue(row, columns["timestamp"]),
			UserEmail:  email,
			Shift:      shift,
			LoadsCount: parseCount(cellValue(row, columns["loads_count"])),
		})
	}

	return records, nil
}

// Aggregate sums loads per shift (shift order) and per user
// (descending by total, then by email for stable output).
func Aggregate(records []Record) Summary {
	byShift := map[string]float64{}
	byUser := map[string]float64{}
	for _, rec := range records {
		byShift[rec.Shift] += rec.LoadsCount
		byUser[rec.UserEmail] += rec.LoadsCount
	}

	summary := Summary{
		ByShift: make([]ShiftTotal, 0, len(byShift)),
		ByUser:  make([]UserTotal, 0, len(byUser)),
	}
	for shift, total := range byShift {
		summary.ByShift = append(summary.ByShift, ShiftTotal{Shift: shift, TotalLoads: total})
	}
	sort.Slice(summary.ByShift, func(i, j int) bool {
		return summary.ByShift[i].Shift < summary.ByShift[j].Shift
	})

	for email, total := range byUser {
		summary.ByUser = append(summary.ByUser, UserTotal{UserEmail: email, TotalLoads: total})
	}
	sort.Slice(summary.ByUser, func(i, j int) bool {
		if summary.ByUser[i].TotalLoads != summary.ByUser[j].TotalLoads {
			return summary.ByUser[i].TotalLoads > summary.ByUser[j].TotalLoads
		}
		return summary.ByUser[i].UserEmail < summary.ByUser[j].UserEmail
	})

	return summary
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseCount(value string) float64 {
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return parsed
}
