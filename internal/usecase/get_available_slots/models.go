package get_available_slots

import "time"

// Request запрос на получение доступных слотов
type Request struct {
	OrgID      int64     // ID организации
	ResourceID int64     // ID ресурса
	ServiceID  int64     // ID услуги (определяет длительность слота)
	Date       time.Time // Дата, на которую запрашиваются слоты
}

// Slot доступный слот
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Response ответ со списком доступных слотов
type Response struct {
	ResourceID      int64  `json:"resource_id"`
	ServiceID       int64  `json:"service_id"`
	Date            string `json:"date"`
	DurationMinutes int    `json:"duration_minutes"`
	Slots           []Slot `json:"slots"`
}
