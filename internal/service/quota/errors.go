package quota

import "errors"

var (
	// ErrSalonNotFound возвращается, когда салон не найден
	ErrSalonNotFound = errors.New("quota: salon not found")

	// ErrPlanNotFound возвращается, когда лимиты тарифа не найдены в справочнике
	ErrPlanNotFound = errors.New("quota: plan limits not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("quota: internal error")
)
