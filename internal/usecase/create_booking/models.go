package create_booking

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	OrgID             int64      // ID организации
	UserID            int64      // ID клиента
	ServiceID         int64      // ID услуги
	CustomerVehicleID int64      // ID автомобиля клиента
	WashCenterID      *int64     // Явно выбранная мойка (только для center-услуг, опционально)
	ScheduledStart    time.Time  // Желаемое время начала (UTC)
	Address           *string    // Адрес клиента (обязателен для mobile-услуг)
	CustomerName      string     // Имя клиента для уведомлений
	CustomerEmail     *string    // Email клиента (опционально)
	CustomerPhone     *string    // Телефон клиента (опционально)
	Notes             *string    // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID                int64     // ID созданного бронирования
	OrgID             int64     // ID организации
	UserID            int64     // ID клиента
	ServiceID         int64     // ID услуги
	CustomerVehicleID int64     // ID автомобиля клиента
	WashCenterID      *int64    // Назначенная мойка (center-услуги)
	EmployeeID        *int64    // Назначенный сотрудник
	FleetVehicleID    *int64    // Назначенный автомобиль автопарка (mobile-услуги)
	ScheduledStart    time.Time // Время начала
	ScheduledEnd      time.Time // Время окончания (= start + duration услуги)
	Status            string    // Статус бронирования (pending)
	TotalPrice        float64   // Итоговая цена

	// Денормализованные данные
	ServiceName  string  // Название услуги
	ServiceType  string  // Тип услуги (mobile/center)
	Address      *string // Адрес (mobile-услуги)
	VehiclePlate *string // Госномер
	VehicleBrand *string // Марка
	VehicleModel *string // Модель
	Notes        *string // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
