// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"encoding/json"
	"time"
	"unicode/utf8"

	"storybook-api/internal/application/story"
	"storybook-api/internal/domain/entity"
	"storybook-api/internal/domain/repository"
	"storybook-api/internal/interfaces/http/dto"
	"storybook-api/pkg/errors"
	"storybook-api/pkg/logger"
	"storybook-api/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// StoryCache 故事读穿缓存接口，*redis.Cache 是生产实现
type StoryCache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
}

// StoryHandler 故事处理器
type StoryHandler struct {
	storyRepo repository.StoryRepository
	renderer  *story.Renderer
	cache     StoryCache
	cacheTTL  time.Duration
}

// NewStoryHandler 创建故事处理器
// cache 可以为 nil，此时查询直接落库。
func NewStoryHandler(storyRepo repository.StoryRepository, renderer *story.Renderer, cache StoryCache, cacheTTL time.Duration) *StoryHandler {
	return &StoryHandler{
		storyRepo: storyRepo,
		renderer:  renderer,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
}

// CreateStory 创建故事
// @Summary 创建故事
// @Description 根据孩子信息与故事参数生成并保存一篇故事
// @Tags Stories
// @Accept json
// @Produce json
// @Param body body dto.CreateStoryRequest true "故事参数"
// @Success 201 {object} dto.Response[dto.CreateStoryResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/stories [post]
func (h *StoryHandler) CreateStory(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	s := req.ToEntity()
	s.StoryContent = h.renderer.Render(s)

	if err := h.storyRepo.Create(ctx, s); err != nil {
		logger.Error(ctx, "failed to create story", err, "story_id", s.ID)
		dto.InternalError(c, "failed to create story")
		return
	}

	metrics.StoryRenderTotal.WithLabelValues(s.Theme, s.Length).Inc()
	metrics.StoryContentLength.WithLabelValues(s.Theme).Observe(float64(utf8.RuneCountInString(s.StoryContent)))

	// 预热缓存，失败不影响响应
	if h.cache != nil {
		if err := h.cache.Set(ctx, storyCacheKey(s.ID), s, h.cacheTTL); err != nil {
			logger.Warn(ctx, "failed to prime story cache", "story_id", s.ID, "error", err.Error())
		}
	}

	logger.Info(ctx, "story created", "story_id", s.ID, "theme", s.Theme, "length", s.Length)

	dto.Created(c, &dto.CreateStoryResponse{
		ID:           s.ID,
		Message:      "Story created successfully",
		StoryContent: s.StoryContent,
	})
}

// GetStory 获取故事详情
// @Summary 获取故事详情
// @Description 根据 ID 获取故事记录及生成内容
// @Tags Stories
// @Accept json
// @Produce json
// @Param id path string true "故事 ID"
// @Success 200 {object} dto.Response[dto.StoryResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/stories/{id} [get]
func (h *StoryHandler) GetStory(c *gin.Context) {
	ctx := c.Request.Context()
	storyID := dto.BindStoryID(c)

	s, err := h.lookupStory(ctx, storyID)
	if err != nil {
		logger.Error(ctx, "failed to get story", err, "story_id", storyID)
		dto.InternalError(c, "failed to get story")
		return
	}

	if s == nil {
		dto.NotFound(c, "story not found")
		return
	}

	dto.Success(c, dto.ToStoryResponse(s))
}

// ListStories 获取故事列表
// @Summary 获取故事列表
// @Description 分页获取已生成的故事
// @Tags Stories
// @Accept json
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[dto.StoryListResponse]
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/stories [get]
func (h *StoryHandler) ListStories(c *gin.Context) {
	ctx := c.Request.Context()

	pageReq := dto.BindPage(c)

	result, err := h.storyRepo.List(ctx, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		logger.Error(ctx, "failed to list stories", err)
		dto.InternalError(c, "failed to list stories")
		return
	}

	resp := dto.ToStoryListResponse(result.Items)
	meta := dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total))
	dto.SuccessWithPage(c, resp, meta)
}

// lookupStory 优先走缓存的故事查询；未命中记录返回 (nil, nil)
func (h *StoryHandler) lookupStory(ctx context.Context, id string) (*entity.Story, error) {
	if h.cache == nil {
		return h.storyRepo.GetByID(ctx, id)
	}

	loaded := false
	bytes, err := h.cache.GetOrLoadSafe(ctx, storyCacheKey(id), h.cacheTTL, func() (interface{}, error) {
		loaded = true
		s, err := h.storyRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, errors.ErrStoryNotFound
		}
		return s, nil
	})

	if loaded {
		metrics.StoryCacheHits.WithLabelValues("miss").Inc()
	} else if err == nil {
		metrics.StoryCacheHits.WithLabelValues("hit").Inc()
	}

	if err != nil {
		if errors.IsAppError(err) && errors.AsAppError(err).Code == errors.CodeStoryNotFound {
			return nil, nil
		}
		return nil, err
	}

	var s entity.Story
	if err := json.Unmarshal(bytes, &s); err != nil {
		// 缓存内容损坏按未命中处理：清掉坏键后落库
		logger.Warn(ctx, "corrupt story cache entry, falling back to db", "story_id", id, "error", err.Error())
		_ = h.cache.Delete(ctx, storyCacheKey(id))
		return h.storyRepo.GetByID(ctx, id)
	}
	return &s, nil
}

// storyCacheKey 故事缓存键
func storyCacheKey(id string) string {
	return "story:" + id
}
