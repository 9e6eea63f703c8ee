package models

import "regexp"

// Storage keys shared by every KV backend.
const (
	KeyDeviceID        = "deviceId"
	KeyHospitalDetails = "hospitalDetails"
)

// Device id bounds (inclusive).
const (
	MinDeviceID = 100000
	MaxDeviceID = 999999
)

var deviceIDPattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// DeviceIdentity is the pairing code shown on screen and sent as deviceCode.
type DeviceIdentity struct {
	ID string `json:"id"` // exactly 6 decimal digits
}

// Valid reports whether the id is a 6 digit code in [MinDeviceID, MaxDeviceID].
func (d DeviceIdentity) Valid() bool {
	return deviceIDPattern.MatchString(d.ID)
}

// Digits splits the code for the renderer's digit boxes.
func (d DeviceIdentity) Digits() []string {
	out := make([]string, 0, len(d.ID))
	for _, r := range d.ID {
		out = append(out, string(r))
	}
	return out
}
