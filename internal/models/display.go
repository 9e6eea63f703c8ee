package models

import (
	"encoding/json"
	"time"
)

// DisplayKind names the screen the renderer must draw.
type DisplayKind string

const (
	KindPairing       DisplayKind = "PAIRING"
	KindOccupied      DisplayKind = "OCCUPIED"
	KindDefaultScreen DisplayKind = "DEFAULT_SCREEN"
	KindError         DisplayKind = "ERROR"
	KindEmpty         DisplayKind = "EMPTY"
)

// DisplayState is a closed set: Pairing, Occupied, DefaultScreen, ErrorState, Empty.
type DisplayState interface {
	Kind() DisplayKind
	isDisplayState()
}

// Pairing shows the device code; nothing has been applied from the backend yet.
type Pairing struct{}

// Occupied shows the doctor card.
type Occupied struct {
	Schedule ScheduleSnapshot
}

// DefaultScreen shows the default media.
type DefaultScreen struct{}

// ErrorState shows "please contact administrator" with the cached help details.
type ErrorState struct {
	Reason string
}

// Empty means connected, no doctor assigned.
type Empty struct{}

func (Pairing) Kind() DisplayKind       { return KindPairing }
func (Occupied) Kind() DisplayKind      { return KindOccupied }
func (DefaultScreen) Kind() DisplayKind { return KindDefaultScreen }
func (ErrorState) Kind() DisplayKind    { return KindError }
func (Empty) Kind() DisplayKind         { return KindEmpty }

func (Pairing) isDisplayState()       {}
func (Occupied) isDisplayState()      {}
func (DefaultScreen) isDisplayState() {}
func (ErrorState) isDisplayState()    {}
func (Empty) isDisplayState()         {}

// DisplayEnvelope is the wire form of a DisplayState.
type DisplayEnvelope struct {
	Kind     DisplayKind       `json:"kind"`
	Schedule *ScheduleSnapshot `json:"schedule,omitempty"` // only for OCCUPIED
	Reason   string            `json:"reason,omitempty"`   // only for ERROR
}

// Envelope converts a state into its wire form. A nil state is Pairing.
func Envelope(s DisplayState) DisplayEnvelope {
	switch v := s.(type) {
	case Occupied:
		sch := v.Schedule
		return DisplayEnvelope{Kind: KindOccupied, Schedule: &sch}
	case ErrorState:
		return DisplayEnvelope{Kind: KindError, Reason: v.Reason}
	case nil:
		return DisplayEnvelope{Kind: KindPairing}
	default:
		return DisplayEnvelope{Kind: s.Kind()}
	}
}

func (p Pairing) MarshalJSON() ([]byte, error)       { return json.Marshal(Envelope(p)) }
func (o Occupied) MarshalJSON() ([]byte, error)      { return json.Marshal(Envelope(o)) }
func (d DefaultScreen) MarshalJSON() ([]byte, error) { return json.Marshal(Envelope(d)) }
func (e ErrorState) MarshalJSON() ([]byte, error)    { return json.Marshal(Envelope(e)) }
func (e Empty) MarshalJSON() ([]byte, error)         { return json.Marshal(Envelope(e)) }

// Phase is the poll scheduler lifecycle stage.
type Phase string

const (
	PhaseUninitialized Phase = "UNINITIALIZED"
	PhaseInitializing  Phase = "INITIALIZING"
	PhasePolling       Phase = "POLLING"
	PhaseStopped       Phase = "STOPPED"
)

// DisplayView is everything the renderer reads.
type DisplayView struct {
	DeviceID    string          `json:"device_id,omitempty"`
	Digits      []string        `json:"device_digits,omitempty"`
	Phase       Phase           `json:"phase"`
	State       DisplayEnvelope `json:"state"`
	Hospital    HospitalDetails `json:"hospital"`
	Online      *bool           `json:"online,omitempty"` // nil until the first probe
	LastOutcome string          `json:"last_outcome,omitempty"`
	Version     uint64          `json:"version"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
