package domain

// Role — роль актора (закрытое множество, без открытых сравнений строк).
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// ParseRole — разбор строки роли; (role, false) для незнакомых значений.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleCustomer:
		return RoleCustomer, true
	default:
		return "", false
	}
}

// Actor — аутентифицированная личность, выполняющая запрос.
// Пустой ID означает «нераспознанный актор» — такие запросы отклоняются.
type Actor struct {
	ID   string
	Role Role
}

// Customer — запись клиента в хранилище (ведётся вне ядра, ядру нужен только факт существования).
type Customer struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
