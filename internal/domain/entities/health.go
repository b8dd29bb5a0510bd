package entities

import "time"

type HealthState string

const (
	HealthOK      HealthState = "ok"
	HealthFailed  HealthState = "failed"
	HealthSkipped HealthState = "skipped"
)

// HealthStatus is the outcome of one dependency check. Error is set when the check
// failed and Reason when it was skipped.
type HealthStatus struct {
	Status HealthState `json:"status"`
	Error  string      `json:"error,omitempty"`
	Reason string      `json:"reason,omitempty"`
}

func Healthy() HealthStatus { return HealthStatus{Status: HealthOK} }

func Unhealthy(err error) HealthStatus {
	return HealthStatus{Status: HealthFailed, Error: RedactSecrets(err.Error())}
}

func SkippedCheck(reason string) HealthStatus {
	return HealthStatus{Status: HealthSkipped, Reason: reason}
}

type SystemCheck struct {
	DataService  HealthStatus
	EmailService HealthStatus
	LastCheck    time.Time
}
