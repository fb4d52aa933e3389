package main

import "math"

type Band struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

var (
	bandRed       = Band{Name: "red", Color: "#FFCCCC"}
	bandOrange    = Band{Name: "orange", Color: "#FFE6CC"}
	bandYellow    = Band{Name: "yellow", Color: "#FFFFCC"}
	bandNearWhite = Band{Name: "near_white", Color: "#FFFFF0"}
	bandWhite     = Band{Name: "white", Color: "#FFFFFF"}
	bandNoRecord  = Band{Name: "no_record", Color: "#E0E0E0"}
)

// attendanceRate is the day's actual score as a whole percentage of the
// expected score. ok is false for days with nothing expected.
func attendanceRate(score DailyScore) (int, bool) {
	expected, actual := score.values()
	if expected <= 0 {
		return 0, false
	}
	return int(math.Round(actual / expected * 100)), true
}

func rateBand(rate int) Band {
	switch {
	case rate < 40:
		return bandRed
	case rate < 60:
		return bandOrange
	case rate < 80:
		return bandYellow
	case rate < 99:
		return bandNearWhite
	default:
		return bandWhite
	}
}

func dayBand(score DailyScore) Band {
	rate, ok := attendanceRate(score)
	if !ok {
		return bandNoRecord
	}
	return rateBand(rate)
}
