// Package docs Vendor Discovery API.
//
// Сервис поиска продавцов рядом с пользователем. Состояние экрана поиска
// (критерии, результаты, карта, drill-down до отзывов) хранится на сервере,
// клиент только отрисовывает ScreenView.
//
// Основные возможности:
// - Поиск продавцов в радиусе с фильтром по категории
// - Карта с маркерами, всплывающими окнами и PNG-рендером
// - Продавец -> товары -> отзывы и рейтинг
// - Отзывы от залогиненной экранной сессии
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//	- image/png
//
//	SecurityDefinitions:
//	screen_session:
//	     type: apiKey
//	     name: X-Screen-Session
//	     in: header
//
// swagger:meta
package docs
