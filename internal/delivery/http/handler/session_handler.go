package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendor-discovery/internal/pkg/errors"
	"github.com/vendor-discovery/internal/pkg/utils"
	"github.com/vendor-discovery/internal/pkg/validator"
	"github.com/vendor-discovery/internal/usecase"
	"github.com/vendor-discovery/internal/usecase/dto"
)

// SessionHandler - логин/логаут экранной сессии (заголовок X-Screen-Session)
type SessionHandler struct {
	screens  *ScreenHandler
	sessions *usecase.SessionUseCase
	logger   *zap.Logger
}

func NewSessionHandler(screens *ScreenHandler, sessions *usecase.SessionUseCase, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		screens:  screens,
		sessions: sessions,
		logger:   logger,
	}
}

// Login godoc
// @Summary Логин экранной сессии
// @Description Привязывает identity из токена клиента к экрану и оповещает подписчиков
// @Tags Session
// @Accept json
// @Produce json
// @Param X-Screen-Session header string true "ID экрана"
// @Param request body dto.SessionRequest true "Токен"
// @Success 200 {object} utils.SuccessResponse{data=dto.IdentityView}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/session [put]
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	screen, err := h.screens.screen(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.SessionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.ValidateRequest(&req); err != nil {
		return utils.SendError(c, err)
	}

	identity, err := h.sessions.Login(c.UserContext(), screen, req.Token)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.ConvertIdentity(identity), nil)
}

// Logout godoc
// @Summary Логаут экранной сессии
// @Description Сбрасывает identity; открытая форма отзыва закрывается
// @Tags Session
// @Param X-Screen-Session header string true "ID экрана"
// @Success 204
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/session [delete]
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	screen, err := h.screens.screen(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	if err := h.sessions.Logout(c.UserContext(), screen); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Revoke godoc
// @Summary Принудительный логаут экранов
// @Description Удаляет сохранённые сессии и оповещает все инстансы
// @Tags Session
// @Accept json
// @Produce json
// @Param request body dto.RevokeRequest true "ID экранов"
// @Success 200 {object} utils.SuccessResponse{data=dto.RevokeResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/sessions/revoke [post]
func (h *SessionHandler) Revoke(c *fiber.Ctx) error {
	var req dto.RevokeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.ValidateRequest(&req); err != nil {
		return utils.SendError(c, err)
	}

	ids := make([]uuid.UUID, 0, len(req.ScreenIDs))
	for _, raw := range req.ScreenIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return utils.SendError(c, errInvalidScreenID)
		}
		ids = append(ids, id)
	}

	n, err := h.sessions.Revoke(c.UserContext(), ids)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.RevokeResponse{Revoked: n}, &utils.Meta{Total: len(ids)})
}
