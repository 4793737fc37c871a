package models

import "time"

// User представляет внутреннюю учётную запись, связанную с внешней идентичностью.
// Запись создаётся при первом обращении и далее не изменяется.
type User struct {
	ID         string    `json:"id"`         // Внутренний идентификатор (UUID)
	ExternalID string    `json:"externalId"` // Идентификатор у внешнего провайдера (уникальный)
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Principal - аутентифицированный субъект запроса, полученный из токена провайдера.
type Principal struct {
	ExternalID string
	Email      string
}
