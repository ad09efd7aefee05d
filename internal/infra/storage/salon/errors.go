package salon

import "errors"

var (
	// ErrSalonNotFound возвращается, когда салон не найден
	ErrSalonNotFound = errors.New("salon.repository: salon not found")

	// ErrPlanNotFound возвращается, когда лимиты тарифа не найдены
	ErrPlanNotFound = errors.New("salon.repository: plan limits not found")

	// ErrVersionConflict возвращается при конфликте оптимистичной блокировки
	// (салон был изменён конкурентно между чтением и записью)
	ErrVersionConflict = errors.New("salon.repository: salon modified concurrently")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("salon.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("salon.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("salon.repository: failed to scan row")
)
