package models

import "encoding/json"

// HospitalDetails is the last-known-good hospital metadata kept in durable storage.
type HospitalDetails struct {
	HospitalName    string `json:"hospitalName,omitempty"`
	HelpEmail       string `json:"helpEmail,omitempty"`
	HelpPhone       string `json:"helpPhone,omitempty"`
	HospitalWebSite string `json:"hospitalWebSite,omitempty"`
}

// Serialize returns the canonical JSON form used both for persistence and
// for the byte-for-byte change check. Field order is fixed by the struct.
func (h HospitalDetails) Serialize() string {
	b, err := json.Marshal(h)
	if err != nil {
		// plain string fields cannot fail to marshal
		return ""
	}
	return string(b)
}

// ParseHospitalDetails decodes a value produced by Serialize.
func ParseHospitalDetails(raw string) (HospitalDetails, error) {
	var h HospitalDetails
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		return HospitalDetails{}, err
	}
	return h, nil
}

// IsZero reports whether no field is set.
func (h HospitalDetails) IsZero() bool {
	return h == HospitalDetails{}
}
