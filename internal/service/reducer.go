package service

import (
	"doctor_signage/internal/models"
)

// ErrorPolicy decides what a failed fetch does to a doctor card already on screen.
type ErrorPolicy int

const (
	// PreserveOccupied keeps the last doctor card on transport errors.
	PreserveOccupied ErrorPolicy = iota
	// ClearOnError always switches to the error screen.
	ClearOnError
)

// Reducer maps (previous state, outcome) to the next state. It holds no
// history; the same inputs always give the same Transition.
type Reducer struct {
	Policy ErrorPolicy
}

// Transition is the output of one Reduce step.
type Transition struct {
	Next    models.DisplayState
	Changed bool

	// WriteHospital is set when Serialized differs from the cached value.
	WriteHospital bool
	Hospital      models.HospitalDetails
	Serialized    string
}

// Reduce applies rules in priority order: cancelled is ignored, failures go to
// ErrorState (subject to Policy), then the effective schedule status decides.
func (r Reducer) Reduce(prev models.DisplayState, o FetchOutcome, cachedRaw string) Transition {
	if prev == nil {
		prev = models.Pairing{}
	}

	var next models.DisplayState
	switch {
	case o.Kind == OutcomeCancelled:
		return Transition{Next: prev}
	case o.Failed():
		next = r.onFailure(prev, o)
	case o.Kind == OutcomeSuccess:
		next = stateForStatus(o)
	default:
		return Transition{Next: prev}
	}

	t := Transition{Next: next, Changed: next != prev}
	if o.Kind == OutcomeSuccess {
		t.Hospital = o.Snapshot.Hospital
		t.Serialized = t.Hospital.Serialize()
		t.WriteHospital = t.Serialized != cachedRaw
	}
	return t
}

func (r Reducer) onFailure(prev models.DisplayState, o FetchOutcome) models.DisplayState {
	if _, occupied := prev.(models.Occupied); occupied && r.Policy == PreserveOccupied {
		return prev
	}
	return models.ErrorState{Reason: o.Reason()}
}

func stateForStatus(o FetchOutcome) models.DisplayState {
	switch o.Effective {
	case models.StatusOccupied:
		if !o.Snapshot.HasDoctor() {
			return models.Empty{}
		}
		return models.Occupied{Schedule: o.Snapshot}
	case models.StatusUnoccupied:
		return models.Empty{}
	case models.StatusDefaultScreen:
		// status 3 also implies an error overlay; that is the renderer's concern.
		return models.DefaultScreen{}
	case models.StatusError:
		return models.ErrorState{Reason: ReasonBackend}
	default:
		return models.ErrorState{Reason: ReasonMalformed}
	}
}
