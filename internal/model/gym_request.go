package model

import (
	"time"

	"github.com/google/uuid"
)

// RequestType tells which side initiated a membership request
type RequestType string

const (
	RequestTypeGymToPerson RequestType = "gym_to_person"
	RequestTypePersonToGym RequestType = "person_to_gym"
)

func (t RequestType) IsValid() bool {
	return t == RequestTypeGymToPerson || t == RequestTypePersonToGym
}

// RequestStatus is the lifecycle state of a membership request
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusAccepted || s == RequestStatusRejected
}

// CanTransition checks a status change. Only pending requests move, and only to a terminal state.
func (s RequestStatus) CanTransition(next RequestStatus) bool {
	return s == RequestStatusPending && next.IsTerminal()
}

// GymRequest proposes a student/professor relationship with a gym
type GymRequest struct {
	ID            uuid.UUID     `json:"id"`
	RequestType   RequestType   `json:"request_type"`
	RequestedRole Role          `json:"requested_role"` // only student or professor
	Status        RequestStatus `json:"status"`
	FromID        uuid.UUID     `json:"from_id"`
	ToID          uuid.UUID     `json:"to_id"`
	ProfessorID   *uuid.UUID    `json:"professor_id"` // professor the student wants to train with
	Message       string        `json:"message"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     *time.Time    `json:"updated_at"`
}

// PersonID returns the user side of the request
func (r *GymRequest) PersonID() uuid.UUID {
	if r.RequestType == RequestTypeGymToPerson {
		return r.ToID
	}
	return r.FromID
}

// GymID returns the gym side of the request
func (r *GymRequest) GymID() uuid.UUID {
	if r.RequestType == RequestTypeGymToPerson {
		return r.FromID
	}
	return r.ToID
}

// Involves reports whether id is one of the request parties
func (r *GymRequest) Involves(id uuid.UUID) bool {
	if r.FromID == id || r.ToID == id {
		return true
	}
	return r.ProfessorID != nil && *r.ProfessorID == id
}

func (r *GymRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

func (r *GymRequest) IsAccepted() bool {
	return r.Status == RequestStatusAccepted
}

func (r *GymRequest) IsRejected() bool {
	return r.Status == RequestStatusRejected
}
