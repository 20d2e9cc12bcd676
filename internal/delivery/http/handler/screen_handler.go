package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendor-discovery/internal/delivery/http/middleware"
	"github.com/vendor-discovery/internal/pkg/errors"
	"github.com/vendor-discovery/internal/pkg/utils"
	"github.com/vendor-discovery/internal/pkg/validator"
	"github.com/vendor-discovery/internal/usecase"
	"github.com/vendor-discovery/internal/usecase/dto"
)

var errInvalidScreenID = errors.ErrInvalidRequest.WithMessage("Invalid screen id")

// ScreenHandler - JSON API экрана поиска
type ScreenHandler struct {
	registry *usecase.ScreenRegistry
	sessions *usecase.SessionUseCase
	logger   *zap.Logger
}

func NewScreenHandler(registry *usecase.ScreenRegistry, sessions *usecase.SessionUseCase, logger *zap.Logger) *ScreenHandler {
	return &ScreenHandler{
		registry: registry,
		sessions: sessions,
		logger:   logger,
	}
}

// screen resolves the screen of the :id param, falling back to the
// X-Screen-Session header. Unknown ids are (re)opened.
func (h *ScreenHandler) screen(c *fiber.Ctx) (*usecase.SearchScreen, error) {
	raw := c.Params("id")
	if raw == "" {
		raw = c.Get(middleware.ScreenSessionHeader)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errInvalidScreenID
	}
	return h.sessions.Screen(c.UserContext(), id)
}

// render writes the screen view; ?wait=true lets background work settle first.
func (h *ScreenHandler) render(c *fiber.Ctx, screen *usecase.SearchScreen, status int) error {
	if c.QueryBool("wait") {
		screen.Wait()
	}
	c.Status(status)
	return utils.SendSuccess(c, screen.View(), nil)
}

// CreateScreen godoc
// @Summary Создание экрана поиска
// @Description Открывает новую экранную сессию: инициализирует карту и (по умолчанию) запрашивает местоположение пользователя
// @Tags Screens
// @Accept json
// @Produce json
// @Param request body dto.CreateScreenRequest false "Размер контейнера карты, центр, запрос геолокации"
// @Param wait query bool false "Дождаться фоновых операций"
// @Success 201 {object} utils.SuccessResponse{data=dto.ScreenCreatedResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/screens [post]
func (h *ScreenHandler) CreateScreen(c *fiber.Ctx) error {
	var req dto.CreateScreenRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest)
		}
	}
	if err := validator.ValidateRequest(&req); err != nil {
		return utils.SendError(c, err)
	}

	screen := h.registry.Create(c.UserContext(), req)
	if c.QueryBool("wait") {
		screen.Wait()
	}

	c.Set(middleware.ScreenSessionHeader, screen.ID().String())
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse{
		Data: dto.ScreenCreatedResponse{ID: screen.ID().String()},
	})
}

// GetScreen godoc
// @Summary Состояние экрана
// @Description Возвращает всё, что нужно для отрисовки: критерии, списки, уровень, отзывы, карту, ошибку
// @Tags Screens
// @Produce json
// @Param id path string true "ID экрана"
// @Param wait query bool false "Дождаться фоновых операций"
// @Success 200 {object} utils.SuccessResponse{data=dto.ScreenView}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/screens/{id} [get]
func (h *ScreenHandler) GetScreen(c *fiber.Ctx) error {
	screen, err := h.screen(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	return h.render(c, screen, fiber.StatusOK)
}

// UpdateCriteria godoc
// @Summary Изменение параметров поиска
// @Description Широта, долгота, радиус (км) и категория. Проверка диапазонов выполняется при поиске.
// @Tags Screens
// @Accept json
// @Produce json
// @Param id path string true "ID экрана"
// @Param request body dto.CriteriaRequest true "Изменяемые поля"
// @Success 200 {object} utils.SuccessResponse{data=dto.ScreenView}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/screens/{id}/criteria [put]
func (h *ScreenHandler) UpdateCriteria(c *fiber.Ctx) error {
	screen, err := h.screen(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.CriteriaRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.ValidateRequest(&req); err != nil {
		return utils.SendError(c, err)
	}

	screen.UpdateCriteria(req)
	return h.render(c, screen, fiber.StatusOK)
}

// Search godoc
// @Summary Поиск продавцов рядом
// @Description Отправляет текущие критерии. Некорректные критерии отклоняются без обращения к бэкенду; результат приходит асинхронно (или сразу с wait=true)
// @Tags Screens
// @Produce json
// @Param id path string true "ID экрана"
// @Param wait query bool false "Дождаться результата"
// @Success 202 {object} utils.SuccessResponse{data=dto.ScreenView}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/screens/{id}/search [post]
func (h *ScreenHandler) Search(c *fiber.Ctx) error {
	screen, err := h.screen(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	if err := screen.Search(); err != nil {
		return utils.SendError(c, err)
	}
	return h.render(c, screen, fiber.StatusAccepted)
}

// Locate godoc
// @Summary Использовать моё местоположение
// @Description Явный запрос геолокации; результат заменяет точку поиска
// @Tags Screens
// @Produce json
// @Param id path string true "ID экрана"
// @Param wait query bool false "Дождаться результата"
// @Success 202 {object} utils.SuccessResponse{data=dto.ScreenView}
// @Router /api/v1/screens/{id}/locate [post]
func (h *ScreenHandler) Locate(c *fiber.Ctx) error {
	screen, err := h.screen(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	screen.Locate(c.UserContext(), true)
	return h.render(c, screen, fiber.StatusAccepted)
}

// SelectVendor godoc
// @Summary Выбор продавца
// @Description Переход к товарам продавца по индексу в списке результатов
// @Tags Drill-down
// @Produce json
// @Param id path string true "ID экрана"
// @Param index path int true "Индекс продавца"
// @Param wait query bool false "Дождаться загрузки товаров"
// @Success 200 {object} utils.SuccessResponse{data=dto.ScreenView}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/screens/{id}/vendors/{index}/select [post]
func (h *ScreenHandler) SelectVendor(c *fiber.Ctx) error {
	screen, err := h.screen(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	index, err := c.ParamsInt("index")
	if err != nil {
		return utils.SendError(c, errors.ErrNoSelection)
	}
	if err := screen.SelectVendor(index); err != nil {
		return utils.SendError(c, err)
	}
	return h.render(c, screen, fiber.StatusOK)
}

// SelectProduct godoc
// @Summary Выбор товара
// @Description Переход к отзывам товара по индексу в списке товаров выбранного продавца
// @Tags Drill-down
// @Produce json
// @Param id path string true "ID экрана"
// @Param index path int true "Индекс товара"
// @Param wait query bool false "Дождаться загрузки отзывов"
// @Success 200 {object} utils.SuccessResponse{data=dto.ScreenView}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/screens/{id}/products/{index}/select [post]
func (h *ScreenHandler) SelectProduct(c *fiber.Ctx) error {
	screen, err := h.screen(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	index, err := c.ParamsInt("index")
	if err != nil {
		return utils.SendError(c, errors.ErrNoSelection)
	}
	if err := screen.SelectProduct(index); err != nil {
		return utils.SendError(c, err)
	}
	return h.render(c, screen, fiber.StatusOK)
}

// Back godoc
// @Summary Назад
// @Description На уровень вверх: отзывы -> товары -> список продавцов
// @Tags Drill-down
// @Produce json
// @Param id path string true "ID экрана"
// @Success 200 {object} utils.SuccessResponse{data=dto.ScreenView}
// @Router /api/v1/screens/{id}/back [post]
func (h *ScreenHandler) Back(c *fiber.Ctx) error {
	screen, err := h.screen(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	screen.Back()
	return h.render(c, screen, fiber.StatusOK)
}

// ToggleReviewForm godoc
// @Summary Открыть / закрыть форму отзыва
// @Tags Reviews
// @Produce json
// @Param id path string true "ID экрана"
// @Success 200 {object} utils.SuccessResponse{data=dto.ScreenView}
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/screens/{id}/review-form/toggle [post]
func (h *ScreenHandler) ToggleReviewForm(c *fiber.Ctx) error {
	screen, err := h.screen(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	if _, err := screen.ToggleReviewForm(); err != nil {
		return utils.SendError(c, err)
	}
	return h.render(c, screen, fiber.StatusOK)
}

// EditReviewForm godoc
// @Summary Заполнение формы отзыва
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path string true "ID экрана"
// @Param request body dto.ReviewFormRequest true "Оценка 1-5 и комментарий"
// @Success 200 {object} utils.SuccessResponse{data=dto.ScreenView}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/screens/{id}/review-form [put]
func (h *ScreenHandler) EditReviewForm(c *fiber.Ctx) error {
	screen, err := h.screen(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.ReviewFormRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.ValidateRequest(&req); err != nil {
		return utils.SendError(c, err)
	}

	if err := screen.EditReviewForm(req.Rating, req.Comment); err != nil {
		return utils.SendError(c, err)
	}
	return h.render(c, screen, fiber.StatusOK)
}

// SubmitReview godoc
// @Summary Отправка отзыва
// @Description Требует залогиненную сессию. После успеха отзывы и рейтинг перечитываются, форма сбрасывается
// @Tags Reviews
// @Produce json
// @Param id path string true "ID экрана"
// @Param wait query bool false "Дождаться обновления отзывов"
// @Success 201 {object} utils.SuccessResponse{data=dto.ScreenView}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/screens/{id}/reviews [post]
func (h *ScreenHandler) SubmitReview(c *fiber.Ctx) error {
	screen, err := h.screen(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	if _, err := screen.SubmitReview(c.UserContext()); err != nil {
		return utils.SendError(c, err)
	}
	return h.render(c, screen, fiber.StatusCreated)
}

// ClickMarker godoc
// @Summary Клик по маркеру
// @Description Возвращает содержимое всплывающего окна маркера
// @Tags Map
// @Produce json
// @Param id path string true "ID экрана"
// @Param markerId path string true "ID маркера"
// @Success 200 {object} utils.SuccessResponse{data=domain.InfoPopup}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/screens/{id}/map/markers/{markerId}/click [post]
func (h *ScreenHandler) ClickMarker(c *fiber.Ctx) error {
	screen, err := h.screen(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	popup, err := screen.ClickMarker(c.Params("markerId"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, popup, nil)
}

// MapImage godoc
// @Summary Растровая карта экрана
// @Description PNG с маркерами или заглушка с причиной, если карта недоступна
// @Tags Map
// @Produce png
// @Param id path string true "ID экрана"
// @Param w query int false "Ширина"
// @Param h query int false "Высота"
// @Success 200 {file} binary
// @Router /api/v1/screens/{id}/map.png [get]
func (h *ScreenHandler) MapImage(c *fiber.Ctx) error {
	screen, err := h.screen(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	if c.QueryBool("wait") {
		screen.Wait()
	}

	png, err := screen.RenderMap(c.QueryInt("w"), c.QueryInt("h"))
	if err != nil {
		h.logger.Error("Failed to render map", zap.Error(err))
		return utils.SendError(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(png)
}

// Directions godoc
// @Summary Маршрут до продавца
// @Description Перенаправляет во внешний сервис маршрутов без передачи referrer; format=json возвращает описание перехода
// @Tags Map
// @Produce json
// @Param id path string true "ID экрана"
// @Param index path int true "Индекс продавца"
// @Param format query string false "json - вернуть описание вместо редиректа"
// @Success 200 {object} utils.SuccessResponse{data=usecase.DirectionsLink}
// @Success 302
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/screens/{id}/vendors/{index}/directions [get]
func (h *ScreenHandler) Directions(c *fiber.Ctx) error {
	screen, err := h.screen(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	index, err := c.ParamsInt("index")
	if err != nil {
		return utils.SendError(c, errors.ErrNoSelection)
	}

	link, err := screen.DirectionsTo(index)
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Set(fiber.HeaderReferrerPolicy, "no-referrer")
	if c.Query("format") == "json" {
		return utils.SendSuccess(c, link, nil)
	}
	return c.Redirect(link.URL, fiber.StatusFound)
}
