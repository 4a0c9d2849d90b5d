// Package handler 提供 HTTP 请求处理器
package handler

import (
	"storybook-api/internal/domain/entity"
	"storybook-api/internal/domain/repository"
	"storybook-api/internal/interfaces/http/dto"
	"storybook-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// StatusHandler 状态上报处理器
type StatusHandler struct {
	statusRepo repository.StatusCheckRepository
}

// NewStatusHandler 创建状态上报处理器
func NewStatusHandler(statusRepo repository.StatusCheckRepository) *StatusHandler {
	return &StatusHandler{
		statusRepo: statusRepo,
	}
}

// CreateStatusCheck 创建状态上报
// @Summary 创建状态上报
// @Tags Status
// @Accept json
// @Produce json
// @Param body body dto.CreateStatusCheckRequest true "状态信息"
// @Success 201 {object} dto.Response[dto.StatusCheckResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/status [post]
func (h *StatusHandler) CreateStatusCheck(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateStatusCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	check := entity.NewStatusCheck(req.ClientName)

	if err := h.statusRepo.Create(ctx, check); err != nil {
		logger.Error(ctx, "failed to create status check", err)
		dto.InternalError(c, "failed to create status check")
		return
	}

	dto.Created(c, dto.ToStatusCheckResponse(check))
}

// ListStatusChecks 获取状态上报列表
// @Summary 获取状态上报列表
// @Tags Status
// @Accept json
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[dto.StatusCheckListResponse]
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/status [get]
func (h *StatusHandler) ListStatusChecks(c *gin.Context) {
	ctx := c.Request.Context()

	pageReq := dto.BindPage(c)

	result, err := h.statusRepo.List(ctx, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		logger.Error(ctx, "failed to list status checks", err)
		dto.InternalError(c, "failed to list status checks")
		return
	}

	resp := dto.ToStatusCheckListResponse(result.Items)
	meta := dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total))
	dto.SuccessWithPage(c, resp, meta)
}
