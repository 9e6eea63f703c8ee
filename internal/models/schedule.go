package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ScheduleStatus is the backend's status code for a device.
type ScheduleStatus int

const (
	StatusOccupied      ScheduleStatus = 1
	StatusUnoccupied    ScheduleStatus = 2
	StatusDefaultScreen ScheduleStatus = 3
	StatusError         ScheduleStatus = 4
)

func (s ScheduleStatus) Valid() bool {
	return s >= StatusOccupied && s <= StatusError
}

func (s ScheduleStatus) String() string {
	switch s {
	case StatusOccupied:
		return "OCCUPIED"
	case StatusUnoccupied:
		return "UNOCCUPIED"
	case StatusDefaultScreen:
		return "DEFAULT_SCREEN"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN(" + strconv.Itoa(int(s)) + ")"
	}
}

// ErrMalformedResponse marks a body that is not JSON or lacks a valid scheduleStatus.
var ErrMalformedResponse = errors.New("malformed schedule response")

// ScheduleSnapshot is one decoded backend answer. Only held in memory.
type ScheduleSnapshot struct {
	Status     ScheduleStatus `json:"scheduleStatus"`
	DoctorName string         `json:"doctorName,omitempty"`
	Department string         `json:"department,omitempty"`
	Timing     string         `json:"timing,omitempty"`
	PhotoURL   string         `json:"photoUrl,omitempty"`
	MediaURL   string         `json:"mediaUrl,omitempty"`
	BgColor    string         `json:"bgColor,omitempty"`
	FromTime   string         `json:"fromTime,omitempty"` // HH:MM:SS, business timezone
	ToTime     string         `json:"toTime,omitempty"`   // HH:MM:SS, business timezone

	Hospital HospitalDetails `json:"-"`
}

// wireSchedule mirrors the backend payload. scheduleStatus is a pointer so a
// missing field can be told apart from zero.
type wireSchedule struct {
	ScheduleStatus  *int   `json:"scheduleStatus"`
	DoctorName      string `json:"doctorName"`
	Department      string `json:"department"`
	Timing          string `json:"timing"`
	Timings         string `json:"timings"` // older backend builds
	PhotoURL        string `json:"photoUrl"`
	MediaURL        string `json:"mediaUrl"`
	BgColor         string `json:"bgColor"`
	FromTime        string `json:"fromTime"`
	ToTime          string `json:"toTime"`
	HelpEmail       string `json:"helpEmail"`
	HelpPhone       string `json:"helpPhone"`
	HospitalName    string `json:"hospitalName"`
	HospitalWebSite string `json:"hospitalWebSite"`
}

// ParseSchedule decodes a backend body. Doctor fields are kept only for status 1.
func ParseSchedule(body []byte) (ScheduleSnapshot, error) {
	var w wireSchedule
	if err := json.Unmarshal(body, &w); err != nil {
		return ScheduleSnapshot{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if w.ScheduleStatus == nil {
		return ScheduleSnapshot{}, fmt.Errorf("%w: scheduleStatus missing", ErrMalformedResponse)
	}
	status := ScheduleStatus(*w.ScheduleStatus)
	if !status.Valid() {
		return ScheduleSnapshot{}, fmt.Errorf("%w: scheduleStatus %d out of range", ErrMalformedResponse, *w.ScheduleStatus)
	}

	snap := ScheduleSnapshot{
		Status: status,
		Hospital: HospitalDetails{
			HospitalName:    strings.TrimSpace(w.HospitalName),
			HelpEmail:       strings.TrimSpace(w.HelpEmail),
			HelpPhone:       strings.TrimSpace(w.HelpPhone),
			HospitalWebSite: strings.TrimSpace(w.HospitalWebSite),
		},
	}
	if status != StatusOccupied {
		return snap, nil
	}

	snap.DoctorName = strings.TrimSpace(w.DoctorName)
	snap.Department = w.Department
	snap.Timing = w.Timing
	if snap.Timing == "" {
		snap.Timing = w.Timings
	}
	snap.PhotoURL = w.PhotoURL
	snap.MediaURL = w.MediaURL
	snap.BgColor = w.BgColor
	snap.FromTime = w.FromTime
	snap.ToTime = w.ToTime
	return snap, nil
}

// HasDoctor reports whether the snapshot carries a doctor card.
func (s ScheduleSnapshot) HasDoctor() bool {
	return s.DoctorName != ""
}

// Covers reports whether bucket ("HH:MM:SS") lies in [FromTime, ToTime).
// A window with FromTime after ToTime wraps past midnight. When either bound
// is absent or unparseable the window check does not apply and Covers is true.
func (s ScheduleSnapshot) Covers(bucket string) bool {
	if s.FromTime == "" || s.ToTime == "" {
		return true
	}
	from, err := ParseClock(s.FromTime)
	if err != nil {
		return true
	}
	to, err := ParseClock(s.ToTime)
	if err != nil {
		return true
	}
	at, err := ParseClock(bucket)
	if err != nil {
		return true
	}
	if from <= to {
		return at >= from && at < to
	}
	return at >= from || at < to
}

const bucketLayout = "15:04"

// TimeBucket renders t in loc truncated to the minute with seconds forced to :00.
func TimeBucket(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(bucketLayout) + ":00"
}

// ParseClock converts "HH:MM" or "HH:MM:SS" to seconds since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	limits := []int{23, 59, 59}
	mult := []int{3600, 60, 1}
	total := 0
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > limits[i] {
			return 0, fmt.Errorf("invalid clock %q", s)
		}
		total += v * mult[i]
	}
	return total, nil
}
