// Package jwt реализует выпуск и проверку сессионных токенов внешнего провайдера идентичности.
//
// Провайдер подписывает токен общим секретом (HS256). Поле sub содержит внешний
// идентификатор пользователя, email - необязательный адрес почты.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга токенов.
type Maker interface {
	// GenerateToken выпускает токен для внешнего идентификатора и почты.
	GenerateToken(subject, email string) (string, error)
	// ParseToken проверяет подпись и срок действия и возвращает claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует Maker с использованием секретного ключа,
// времени жизни токена (TTL) и необязательного издателя.
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
	issuer    string        // Ожидаемый издатель; пустая строка отключает проверку.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа, TTL и издателя.
func NewJWTMaker(secretKey string, ttl time.Duration, issuer string) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		issuer:    issuer,
	}
}
