package appointment

import (
	"github.com/pawclinic/vet-api/internal/model"
)

// transitions is the appointment lifecycle graph. A status missing from the
// map, or mapped to an empty set, is terminal.
var transitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusScheduled: {
		model.AppointmentStatusConfirmed,
		model.AppointmentStatusCheckedIn,
		model.AppointmentStatusCancelled,
		model.AppointmentStatusNoShow,
	},
	model.AppointmentStatusConfirmed: {
		model.AppointmentStatusCheckedIn,
		model.AppointmentStatusCancelled,
		model.AppointmentStatusNoShow,
	},
	model.AppointmentStatusCheckedIn: {
		model.AppointmentStatusInProgress,
		model.AppointmentStatusCancelled,
	},
	model.AppointmentStatusInProgress: {
		model.AppointmentStatusCompleted,
	},
	model.AppointmentStatusCompleted: {},
	model.AppointmentStatusCancelled: {},
	model.AppointmentStatusNoShow:    {},
}

// CanTransition reports whether an appointment may move from one status to
// another.
func CanTransition(from, to model.AppointmentStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has no outgoing transitions.
func IsTerminal(status model.AppointmentStatus) bool {
	return len(transitions[status]) == 0
}
