package types

// Caller — личность вызывающего, выданная внешним провайдером
// аутентификации. Отсутствие обоих флагов роли означает роль "клиент".
type Caller struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Company      string `json:"company"`
	PhotoURL     string `json:"photoUrl"`
	IsAdmin      bool   `json:"isAdmin"`
	IsTeamMember bool   `json:"isTeamMember"`
}

// IsStaff — админ или член команды: видит и ведёт все заказы.
func (c Caller) IsStaff() bool {
	return c.IsAdmin || c.IsTeamMember
}
