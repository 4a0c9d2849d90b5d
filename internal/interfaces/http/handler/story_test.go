package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storybook-api/internal/application/story"
	"storybook-api/internal/domain/entity"
	"storybook-api/internal/domain/repository"
	"storybook-api/internal/interfaces/http/dto"
	"storybook-api/internal/interfaces/http/handler"
)

// fakeStoryRepo 内存版故事仓储，测试专用
type fakeStoryRepo struct {
	mu      sync.Mutex
	stories map[string]*entity.Story
	failing bool
}

func newFakeStoryRepo() *fakeStoryRepo {
	return &fakeStoryRepo{stories: make(map[string]*entity.Story)}
}

func (r *fakeStoryRepo) Create(_ context.Context, s *entity.Story) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return assert.AnError
	}
	r.stories[s.ID] = s
	return nil
}

func (r *fakeStoryRepo) GetByID(_ context.Context, id string) (*entity.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return nil, assert.AnError
	}
	return r.stories[id], nil
}

func (r *fakeStoryRepo) List(_ context.Context, p repository.Pagination) (*repository.PagedResult[*entity.Story], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return nil, assert.AnError
	}
	items := make([]*entity.Story, 0, len(r.stories))
	for _, s := range r.stories {
		items = append(items, s)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	start := p.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + p.Limit()
	if end > len(items) {
		end = len(items)
	}
	return repository.NewPagedResult(items[start:end], int64(len(r.stories)), p), nil
}

func newTestRouter(repo repository.StoryRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewStoryHandler(repo, story.NewRenderer(), nil, 0)

	r := gin.New()
	api := r.Group("/api")
	{
		stories := api.Group("/stories")
		{
			stories.POST("", h.CreateStory)
			stories.GET("", h.ListStories)
			stories.GET("/:id", h.GetStory)
		}
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateStory(t *testing.T) {
	repo := newFakeStoryRepo()
	r := newTestRouter(repo)

	w := doJSON(t, r, http.MethodPost, "/api/stories", dto.CreateStoryRequest{
		KidName:            "Test Kid",
		KidAge:             5,
		Theme:              "forest",
		StoryType:          "adventure",
		Length:             "short",
		SpecialIngredients: []string{"Magic spells", "Talking animals"},
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response[dto.CreateStoryResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Story created successfully", resp.Data.Message)
	assert.NotEmpty(t, resp.Data.ID)
	assert.Contains(t, resp.Data.StoryContent, "Test Kid")
	assert.Contains(t, resp.Data.StoryContent, "deep in a magical forest filled with talking animals")

	t.Run("记录已持久化且内容一致", func(t *testing.T) {
		stored, err := repo.GetByID(context.Background(), resp.Data.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, resp.Data.StoryContent, stored.StoryContent)
	})
}

func TestCreateStoryValidation(t *testing.T) {
	r := newTestRouter(newFakeStoryRepo())

	t.Run("缺少必填字段返回 400", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/stories", map[string]interface{}{
			"kid_name": "Test Kid",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("kid_age 为 0 合法", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/stories", dto.CreateStoryRequest{
			KidName:   "Newborn",
			KidAge:    0,
			Theme:     "fairy",
			StoryType: "bedtime",
			Length:    "short",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestGetStory(t *testing.T) {
	repo := newFakeStoryRepo()
	r := newTestRouter(repo)

	created := doJSON(t, r, http.MethodPost, "/api/stories", dto.CreateStoryRequest{
		KidName:            "Test Kid",
		KidAge:             5,
		KidPhoto:           "base64photodata",
		Theme:              "volcano",
		StoryType:          "adventure",
		Length:             "medium",
		SpecialIngredients: []string{"Dragons", "A golden key"},
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var createResp dto.Response[dto.CreateStoryResponse]
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &createResp))

	t.Run("按 ID 取回全部字段", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/stories/"+createResp.Data.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response[dto.StoryResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, createResp.Data.ID, resp.Data.ID)
		assert.Equal(t, "Test Kid", resp.Data.KidName)
		assert.Equal(t, 5, resp.Data.KidAge)
		assert.Equal(t, "base64photodata", resp.Data.KidPhoto)
		assert.Equal(t, "volcano", resp.Data.Theme)
		assert.Equal(t, "adventure", resp.Data.StoryType)
		assert.Equal(t, "medium", resp.Data.Length)
		assert.Equal(t, []string{"Dragons", "A golden key"}, resp.Data.SpecialIngredients)
		assert.False(t, resp.Data.CreatedAt.IsZero())
		// 未知主题落到兜底设定
		assert.Contains(t, resp.Data.StoryContent, "in a magical world")
	})

	t.Run("不存在的 ID 返回 404", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/stories/no-such-id", nil)
		require.Equal(t, http.StatusNotFound, w.Code)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "story not found", resp.Message)
	})
}

func TestListStories(t *testing.T) {
	repo := newFakeStoryRepo()
	r := newTestRouter(repo)

	for i := 0; i < 3; i++ {
		w := doJSON(t, r, http.MethodPost, "/api/stories", dto.CreateStoryRequest{
			KidName:   "Kid",
			KidAge:    i + 3,
			Theme:     "space",
			StoryType: "adventure",
			Length:    "short",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	t.Run("默认分页返回全部", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/stories", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response[dto.StoryListResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Data.Stories, 3)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, 3, resp.Meta.Total)
	})

	t.Run("page_size 限制返回条数", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/stories?page=1&page_size=2", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response[dto.StoryListResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Data.Stories, 2)
		assert.Equal(t, 3, resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.TotalPages)
	})
}

func TestStoryRepoFailure(t *testing.T) {
	repo := newFakeStoryRepo()
	repo.failing = true
	r := newTestRouter(repo)

	t.Run("创建失败返回 500", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/stories", dto.CreateStoryRequest{
			KidName:   "Kid",
			Theme:     "forest",
			StoryType: "adventure",
			Length:    "short",
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("查询失败返回 500", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/stories/any-id", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
