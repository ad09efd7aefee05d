package create_appointment

import (
	"time"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	SalonID    int64            // ID салона
	ServiceIDs []int64          // ID основной услуги и дополнительных
	ClientID   int64            // ID клиента
	Date       time.Time        // Дата записи (без времени)
	StartTime  types.TimeString // Время начала слота (например, "10:00")
	Notes      *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64            // ID созданной записи
	SalonID         int64            // ID салона
	ServiceID       int64            // ID основной услуги
	ClientID        int64            // ID клиента
	Date            time.Time        // Дата записи
	StartTime       types.TimeString // Время начала
	DurationMinutes int              // Суммарная длительность в минутах
	Status          string           // Статус записи (всегда pending при создании)

	// Денормализованные данные для дашборда
	ServiceName  string  // Название услуги
	ServicePrice float64 // Суммарная цена услуг
	Notes        *string // Заметки

	// Состояние квоты после создания (nil, если проверка не удалась)
	Quota *QuotaInfo

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}

// QuotaInfo состояние месячной квоты салона после создания записи
type QuotaInfo struct {
	CurrentCount int
	MaxCount     int
	LimitReached bool
	SalonClosed  bool
}
