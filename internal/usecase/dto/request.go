package dto

// CriteriaRequest - изменение параметров поиска. Пустые поля не меняются;
// ClearCategory сбрасывает категорию ("All"). Диапазоны проверяются при
// поиске, форма может временно держать любые значения.
type CriteriaRequest struct {
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	RadiusKm      *int     `json:"radiusKm"`
	Category      *string  `json:"category" validate:"omitempty,max=64"`
	ClearOrigin   bool     `json:"clearOrigin"`
	ClearCategory bool     `json:"clearCategory"`
}

// ReviewFormRequest - редактирование формы отзыва
type ReviewFormRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// SessionRequest - логин экранной сессии токеном клиента
type SessionRequest struct {
	Token string `json:"token" validate:"required"`
}

// CreateScreenRequest - параметры нового экрана; контейнер карты опционален
type CreateScreenRequest struct {
	MapWidth  int     `json:"mapWidth" validate:"omitempty,min=1,max=2048"`
	MapHeight int     `json:"mapHeight" validate:"omitempty,min=1,max=2048"`
	Latitude  float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	Locate    *bool   `json:"locate"`
}

// RevokeRequest - принудительный логаут нескольких экранов
type RevokeRequest struct {
	ScreenIDs []string `json:"screenIds" validate:"required,min=1,max=500,dive,uuid"`
}

// RevokeResponse - сколько сохранённых сессий удалено
type RevokeResponse struct {
	Revoked int64 `json:"revoked"`
}
