package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storybook-api/internal/application/story"
	"storybook-api/internal/domain/entity"
	"storybook-api/internal/domain/repository"
	"storybook-api/internal/interfaces/http/dto"
	"storybook-api/internal/interfaces/http/handler"
)

// fakeStoryCache 内存版读穿缓存，语义对齐 redis.Cache
type fakeStoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeStoryCache() *fakeStoryCache {
	return &fakeStoryCache{entries: make(map[string][]byte)}
}

func (c *fakeStoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = b
	return nil
}

func (c *fakeStoryCache) GetOrLoadSafe(_ context.Context, key string, _ time.Duration, loader func() (interface{}, error)) ([]byte, error) {
	c.mu.Lock()
	if b, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return b, nil
	}
	c.mu.Unlock()

	data, err := loader()
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = b
	c.mu.Unlock()
	return b, nil
}

func (c *fakeStoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

func (c *fakeStoryCache) put(key string, val []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = val
}

func (c *fakeStoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

func newCachedTestRouter(repo repository.StoryRepository, cache handler.StoryCache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewStoryHandler(repo, story.NewRenderer(), cache, time.Minute)

	r := gin.New()
	stories := r.Group("/api/stories")
	{
		stories.POST("", h.CreateStory)
		stories.GET("/:id", h.GetStory)
	}
	return r
}

func TestGetStoryFromCache(t *testing.T) {
	repo := newFakeStoryRepo()
	cache := newFakeStoryCache()
	r := newCachedTestRouter(repo, cache)

	created := doJSON(t, r, http.MethodPost, "/api/stories", dto.CreateStoryRequest{
		KidName:   "Test Kid",
		KidAge:    5,
		Theme:     "forest",
		StoryType: "adventure",
		Length:    "short",
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var createResp dto.Response[dto.CreateStoryResponse]
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &createResp))
	id := createResp.Data.ID

	// 创建时已预热缓存
	require.True(t, cache.has("story:"+id))

	// 断开数据库，命中缓存仍可读
	repo.failing = true

	w := doJSON(t, r, http.MethodGet, "/api/stories/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[dto.StoryResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.Data.ID)
	assert.Equal(t, "Test Kid", resp.Data.KidName)
	assert.Contains(t, resp.Data.StoryContent, "deep in a magical forest filled with talking animals")
}

func TestGetStoryCacheMissLoadsFromRepo(t *testing.T) {
	repo := newFakeStoryRepo()
	cache := newFakeStoryCache()
	r := newCachedTestRouter(repo, cache)

	// 直接入库，不经过创建接口，缓存保持空
	s := entity.NewStory("Bob", 7, "", "space", "funny", "long", []string{"Rockets"})
	s.StoryContent = story.NewRenderer().Render(s)
	require.NoError(t, repo.Create(context.Background(), s))

	w := doJSON(t, r, http.MethodGet, "/api/stories/"+s.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[dto.StoryResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Bob", resp.Data.KidName)

	t.Run("未命中后回填缓存", func(t *testing.T) {
		require.True(t, cache.has("story:"+s.ID))

		// 断开数据库后第二次读取仍成功
		repo.failing = true
		w := doJSON(t, r, http.MethodGet, "/api/stories/"+s.ID, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetStoryCacheMissAbsent(t *testing.T) {
	repo := newFakeStoryRepo()
	cache := newFakeStoryCache()
	r := newCachedTestRouter(repo, cache)

	// 库中不存在的记录走缓存路径也必须是 404 而非 500
	w := doJSON(t, r, http.MethodGet, "/api/stories/no-such-id", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "story not found", resp.Message)
}

func TestGetStoryCorruptCacheEntry(t *testing.T) {
	repo := newFakeStoryRepo()
	cache := newFakeStoryCache()
	r := newCachedTestRouter(repo, cache)

	s := entity.NewStory("Eve", 6, "", "ocean", "adventure", "medium", nil)
	s.StoryContent = story.NewRenderer().Render(s)
	require.NoError(t, repo.Create(context.Background(), s))

	// 写入无法反序列化的缓存值
	cache.put("story:"+s.ID, []byte("{not json"))

	w := doJSON(t, r, http.MethodGet, "/api/stories/"+s.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[dto.StoryResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Eve", resp.Data.KidName)

	// 坏键已被清除
	assert.False(t, cache.has("story:"+s.ID))
}
