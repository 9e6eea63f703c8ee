package service

import (
	"strconv"
	"strings"

	"doctor_signage/internal/models"
)

// OutcomeKind classifies one fetch.
type OutcomeKind string

const (
	OutcomeSuccess      OutcomeKind = "success"
	OutcomeHTTPError    OutcomeKind = "http_error"
	OutcomeNetworkError OutcomeKind = "network_error"
	OutcomeMalformed    OutcomeKind = "malformed"
	OutcomeCancelled    OutcomeKind = "cancelled"
)

// Reasons carried by ErrorState and the display event log.
const (
	ReasonNetwork   = "network"
	ReasonMalformed = "malformed"
	ReasonBackend   = "backend_error"
	ReasonStorage   = "storage"
)

// FetchOutcome is the result of one poll cycle. Fields beyond Kind and Seq
// are set according to Kind.
type FetchOutcome struct {
	Kind OutcomeKind
	Seq  uint64 // fetch sequence that produced it

	// success
	Snapshot  models.ScheduleSnapshot
	Effective models.ScheduleStatus // status after the occupied-window check
	Bucket    string

	// http_error
	StatusCode int

	// network_error, malformed
	Err error
}

// Classify builds a Success outcome. A status 1 snapshot whose window does not
// cover bucket is re-tagged as DefaultScreen.
func Classify(snap models.ScheduleSnapshot, bucket string) FetchOutcome {
	effective := snap.Status
	if effective == models.StatusOccupied && !snap.Covers(bucket) {
		effective = models.StatusDefaultScreen
	}
	return FetchOutcome{
		Kind:      OutcomeSuccess,
		Snapshot:  snap,
		Effective: effective,
		Bucket:    bucket,
	}
}

func HTTPError(code int) FetchOutcome {
	return FetchOutcome{Kind: OutcomeHTTPError, StatusCode: code}
}

func NetworkError(err error) FetchOutcome {
	return FetchOutcome{Kind: OutcomeNetworkError, Err: err}
}

func Malformed(err error) FetchOutcome {
	return FetchOutcome{Kind: OutcomeMalformed, Err: err}
}

func Cancelled() FetchOutcome {
	return FetchOutcome{Kind: OutcomeCancelled}
}

// Failed reports a transport or decoding failure.
func (o FetchOutcome) Failed() bool {
	switch o.Kind {
	case OutcomeHTTPError, OutcomeNetworkError, OutcomeMalformed:
		return true
	}
	return false
}

// Reason is a short label for logs, ErrorState and last_outcome.
func (o FetchOutcome) Reason() string {
	switch o.Kind {
	case OutcomeHTTPError:
		return "http_" + strconv.Itoa(o.StatusCode)
	case OutcomeNetworkError:
		return ReasonNetwork
	case OutcomeMalformed:
		return ReasonMalformed
	case OutcomeSuccess:
		if o.Effective == models.StatusError {
			return ReasonBackend
		}
		return "status_" + strings.ToLower(o.Effective.String())
	default:
		return string(o.Kind)
	}
}
