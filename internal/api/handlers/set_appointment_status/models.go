package set_appointment_status

// SetStatusRequest HTTP request model
type SetStatusRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"` // Причина отмены (только для status=cancelled)
}
