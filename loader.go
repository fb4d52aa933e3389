package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

type AttendanceFilter struct {
	PersonID string
	Start    time.Time
	End      time.Time
}

type AttendanceLoad struct {
	Events      []AttendanceEvent
	InvalidRows int
	Superseded  int
}

type ScheduleLoad struct {
	Rows        []ScheduleRow
	InvalidRows int
}

func openCSV(path string) (*os.File, *csv.Reader, map[string]int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		file.Close()
		return nil, nil, nil, fmt.Errorf("unable to read header: %w", err)
	}
	return file, reader, normalizeHeaders(headers), nil
}

func loadAttendanceCSV(path string, filter AttendanceFilter) (AttendanceLoad, error) {
	file, reader, colMap, err := openCSV(path)
	if err != nil {
		return AttendanceLoad{}, err
	}
	defer file.Close()
	return readAttendance(reader, colMap, filter)
}

func readAttendance(reader *csv.Reader, colMap map[string]int, filter AttendanceFilter) (AttendanceLoad, error) {
	courseIdx, ok := findColumn(colMap, []string{"course_id", "course_class_id", "courseclassid", "class_id"})
	if !ok {
		return AttendanceLoad{}, errors.New("missing course_id column")
	}
	dateIdx, ok := findColumn(colMap, []string{"date", "course_date", "attendance_date"})
	if !ok {
		return AttendanceLoad{}, errors.New("missing date column")
	}
	personIdx, _ := findColumn(colMap, []string{"person_id", "student_id", "personid"})
	nameIdx, _ := findColumn(colMap, []string{"course_name", "course", "merged_course_name"})
	periodIdx, _ := findColumn(colMap, []string{"period", "period_name"})
	startIdx, _ := findColumn(colMap, []string{"time_start", "start_time"})
	statusIdx, _ := findColumn(colMap, []string{"status", "attendance", "attendance_type", "type"})
	recordedIdx, _ := findColumn(colMap, []string{"recorded_at", "timestamp", "timestamp_taken", "latest_timestamp"})

	load := AttendanceLoad{}
	latest := map[string]int{}
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return AttendanceLoad{}, fmt.Errorf("unable to read CSV: %w", err)
		}
		if len(record) == 0 {
			continue
		}

		courseID := getValue(record, courseIdx)
		if courseID == "" {
			load.InvalidRows++
			continue
		}
		day, err := parseDate(getValue(record, dateIdx))
		if err != nil {
			load.InvalidRows++
			continue
		}
		recordedAt, err := parseTimestamp(getValue(record, recordedIdx))
		if err != nil {
			load.InvalidRows++
			continue
		}

		event := AttendanceEvent{
			PersonID:   getValue(record, personIdx),
			CourseID:   courseID,
			CourseName: getValue(record, nameIdx),
			Period:     getValue(record, periodIdx),
			TimeStart:  getValue(record, startIdx),
			Date:       calendarDay(day),
			Status:     getValue(record, statusIdx),
			RecordedAt: recordedAt,
		}
		if !filter.matches(event) {
			continue
		}
		if event.Status == "" {
			event.Status = noRecordStatus
		}

		key := slotKey(event)
		if pos, exists := latest[key]; exists {
			load.Superseded++
			if event.RecordedAt.After(load.Events[pos].RecordedAt) {
				load.Events[pos] = event
			}
			continue
		}
		latest[key] = len(load.Events)
		load.Events = append(load.Events, event)
	}

	sortEvents(load.Events)
	return load, nil
}

func (f AttendanceFilter) matches(event AttendanceEvent) bool {
	if f.PersonID != "" && event.PersonID != "" && event.PersonID != f.PersonID {
		return false
	}
	if !f.Start.IsZero() && !f.End.IsZero() && !withinRange(event.Date, f.Start, f.End) {
		return false
	}
	return true
}

// slotKey identifies one scheduled period so repeated recordings of it
// collapse to the most recent one.
func slotKey(event AttendanceEvent) string {
	return strings.Join([]string{event.PersonID, event.CourseID, event.Period, event.TimeStart, formatDate(event.Date)}, "|")
}

func sortEvents(events []AttendanceEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.TimeStart != b.TimeStart {
			return a.TimeStart < b.TimeStart
		}
		return a.CourseID < b.CourseID
	})
}

func loadScheduleCSV(path string) (ScheduleLoad, error) {
	file, reader, colMap, err := openCSV(path)
	if err != nil {
		return ScheduleLoad{}, err
	}
	defer file.Close()

	courseIdx, ok := findColumn(colMap, []string{"course_id", "course_class_id", "courseclassid"})
	if !ok {
		return ScheduleLoad{}, errors.New("missing course_id column")
	}
	slotIdx, ok := findColumn(colMap, []string{"slot_id", "day_row_class_id", "ttdayrowclassid"})
	if !ok {
		return ScheduleLoad{}, errors.New("missing slot_id column")
	}
	cellIdx, ok := findColumn(colMap, []string{"column_row_id", "ttcolumnrowid", "cell_id"})
	if !ok {
		return ScheduleLoad{}, errors.New("missing column_row_id column")
	}
	nameIdx, _ := findColumn(colMap, []string{"course_name", "course"})
	periodIdx, _ := findColumn(colMap, []string{"period", "period_name"})
	dayIdx, _ := findColumn(colMap, []string{"day_name", "day"})
	startIdx, _ := findColumn(colMap, []string{"time_start", "start_time"})
	endIdx, _ := findColumn(colMap, []string{"time_end", "end_time"})

	load := ScheduleLoad{}
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return ScheduleLoad{}, fmt.Errorf("unable to read CSV: %w", err)
		}
		if len(record) == 0 {
			continue
		}
		row := ScheduleRow{
			CourseID:    getValue(record, courseIdx),
			SlotID:      getValue(record, slotIdx),
			CourseName:  getValue(record, nameIdx),
			Period:      getValue(record, periodIdx),
			ColumnRowID: getValue(record, cellIdx),
			DayName:     getValue(record, dayIdx),
			TimeStart:   getValue(record, startIdx),
			TimeEnd:     getValue(record, endIdx),
		}
		if row.CourseID == "" || row.SlotID == "" || row.ColumnRowID == "" {
			load.InvalidRows++
			continue
		}
		load.Rows = append(load.Rows, row)
	}
	return load, nil
}

func normalizeHeaders(headers []string) map[string]int {
	result := make(map[string]int, len(headers))
	for idx, header := range headers {
		normalized := normalizeHeader(header)
		if _, exists := result[normalized]; !exists {
			result[normalized] = idx
		}
	}
	return result
}

func normalizeHeader(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.TrimPrefix(value, "\ufeff")
	value = strings.ReplaceAll(value, " ", "")
	value = strings.ReplaceAll(value, "_", "")
	value = strings.ReplaceAll(value, "-", "")
	return value
}

func findColumn(headers map[string]int, names []string) (int, bool) {
	for _, name := range names {
		if idx, ok := headers[normalizeHeader(name)]; ok {
			return idx, true
		}
	}
	return -1, false
}

func getValue(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
