package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/pkg/utils"
	"github.com/vendor-discovery/internal/usecase/dto"
)

// GetCategories godoc
// @Summary Категории продавцов
// @Description Список категорий для фильтра поиска ("All" - без категории)
// @Tags Catalog
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.CategoriesResponse}
// @Router /api/v1/categories [get]
func GetCategories(c *fiber.Ctx) error {
	categories := make([]string, len(domain.Categories))
	copy(categories, domain.Categories)

	return utils.SendSuccess(c, dto.CategoriesResponse{Categories: categories}, &utils.Meta{
		Total: len(categories),
	})
}
