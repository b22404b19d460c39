package events

import "time"

const EmployeeLifecycleTopic = "directory.employee.lifecycle.v1"

const (
	EmployeeCreated = "employee.created"
	EmployeeUpdated = "employee.updated"
	EmployeeDeleted = "employee.deleted"
)

type EmployeeLifecycleEvent struct {
	EventType  string    `json:"eventType"`
	RequestID  string    `json:"requestId,omitempty"`
	EmployeeID int64     `json:"employeeId"`
	OccurredAt time.Time `json:"occurredAt"`
}
