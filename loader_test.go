package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempCSV(t *testing.T, name string, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestLoadAttendanceCSV(t *testing.T) {
	csvData := "Person ID,Course ID,Course Name,Period,Time Start,Date,Status,Recorded At\n" +
		"P-1,C-2,Maths-G9,Second Period,09:05:00,2026-01-05,Present,2026-01-05 09:10:00\n" +
		"P-1,C-1,English-G9,First Period,08:15:00,2026-01-05,Late,2026-01-05 08:20:00\n" +
		"P-1,C-1,English-G9,First Period,08:15:00,2026-01-05,Present,2026-01-05 08:40:00\n" +
		"P-1,C-1,English-G9,First Period,08:15:00,2026-01-06,,\n" +
		"P-2,C-1,English-G9,First Period,08:15:00,2026-01-06,Absent,\n" +
		"P-1,C-1,English-G9,First Period,08:15:00,2025-12-01,Absent,\n" +
		"P-1,,English-G9,First Period,08:15:00,2026-01-06,Absent,\n" +
		"P-1,C-3,Science-G9,Third Period,10:00:00,someday,Absent,\n"

	path := writeTempCSV(t, "attendance.csv", csvData)
	filter := AttendanceFilter{
		PersonID: "P-1",
		Start:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	load, err := loadAttendanceCSV(path, filter)
	if err != nil {
		t.Fatalf("load attendance: %v", err)
	}
	if load.InvalidRows != 2 {
		t.Fatalf("expected 2 invalid rows, got %d", load.InvalidRows)
	}
	if load.Superseded != 1 {
		t.Fatalf("expected 1 superseded recording, got %d", load.Superseded)
	}
	if len(load.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(load.Events))
	}

	first := load.Events[0]
	if first.CourseID != "C-1" || first.Status != "Present" {
		t.Fatalf("expected latest English recording first, got %s %s", first.CourseID, first.Status)
	}
	if load.Events[1].CourseID != "C-2" {
		t.Fatalf("expected maths second, got %s", load.Events[1].CourseID)
	}
	if load.Events[2].Status != noRecordStatus {
		t.Fatalf("expected empty status to read as %q, got %q", noRecordStatus, load.Events[2].Status)
	}
}

func TestLoadAttendanceCSVMissingColumns(t *testing.T) {
	path := writeTempCSV(t, "attendance.csv", "person_id,status\nP-1,Present\n")
	if _, err := loadAttendanceCSV(path, AttendanceFilter{}); err == nil {
		t.Fatalf("expected error for missing course column")
	}
}

func TestLoadScheduleCSV(t *testing.T) {
	csvData := "course_id,slot_id,course_name,period,column_row_id,day_name,time_start,time_end\n" +
		"00000175,000000000184,Japanese Intermediate II - G9,First Period,00000001,Monday Scheduling,08:15:00,09:00:00\n" +
		"00000185,000000000341,Japanese Beginner I - G9,First Period,00000001,Monday Scheduling,08:15:00,09:00:00\n" +
		"00000185,,Japanese Beginner I - G9,Second Period,00000002,Monday Scheduling,09:05:00,09:50:00\n"

	load, err := loadScheduleCSV(writeTempCSV(t, "schedule.csv", csvData))
	if err != nil {
		t.Fatalf("load schedule: %v", err)
	}
	if load.InvalidRows != 1 {
		t.Fatalf("expected 1 invalid row, got %d", load.InvalidRows)
	}
	if len(load.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(load.Rows))
	}
	if load.Rows[1].SlotID != "000000000341" || load.Rows[1].ColumnRowID != "00000001" || load.Rows[1].TimeEnd != "09:00:00" {
		t.Fatalf("unexpected row %+v", load.Rows[1])
	}
}
