package response

import (
	"time"

	"payment_gateway/internal/domain/entities"
)

type SystemCheckResponse struct {
	DataService  entities.HealthStatus `json:"data_service"`
	EmailService entities.HealthStatus `json:"email_service"`
	LastCheck    time.Time             `json:"last_check"`
}

func FromSystemCheck(s entities.SystemCheck) SystemCheckResponse {
	return SystemCheckResponse{
		DataService:  s.DataService,
		EmailService: s.EmailService,
		LastCheck:    s.LastCheck,
	}
}
