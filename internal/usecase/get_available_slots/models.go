package get_available_slots

import (
	"time"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	SalonID    int64     // ID салона
	ServiceIDs []int64   // ID основной услуги и дополнительных (длительности суммируются)
	Date       time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	SalonID         int64     // ID салона
	Date            time.Time // Дата, на которую запрашивались слоты
	DurationMinutes int       // Суммарная длительность запрошенных услуг
	Slots           []Slot    // Упорядоченный по времени список доступных слотов
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	DurationMinutes int              // Длительность слота в минутах
}
