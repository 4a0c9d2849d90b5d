// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"storybook-api/internal/domain/entity"
)

// CreateStoryRequest 创建故事请求
// kid_age 不带 required 约束：0 岁是合法输入，取值范围不做校验。
type CreateStoryRequest struct {
	KidName            string   `json:"kid_name" binding:"required"`
	KidAge             int      `json:"kid_age"`
	KidPhoto           string   `json:"kid_photo,omitempty"`
	Theme              string   `json:"theme" binding:"required"`
	StoryType          string   `json:"story_type" binding:"required"`
	Length             string   `json:"length" binding:"required"`
	SpecialIngredients []string `json:"special_ingredients,omitempty"`
}

// ToEntity 转换为故事实体
func (r *CreateStoryRequest) ToEntity() *entity.Story {
	return entity.NewStory(
		r.KidName, r.KidAge, r.KidPhoto,
		r.Theme, r.StoryType, r.Length,
		r.SpecialIngredients,
	)
}

// CreateStoryResponse 创建故事响应
type CreateStoryResponse struct {
	ID           string `json:"id"`
	Message      string `json:"message"`
	StoryContent string `json:"story_content"`
}

// StoryResponse 故事详情响应
type StoryResponse struct {
	ID                 string    `json:"id"`
	KidName            string    `json:"kid_name"`
	KidAge             int       `json:"kid_age"`
	KidPhoto           string    `json:"kid_photo,omitempty"`
	Theme              string    `json:"theme"`
	StoryType          string    `json:"story_type"`
	Length             string    `json:"length"`
	SpecialIngredients []string  `json:"special_ingredients"`
	CreatedAt          time.Time `json:"created_at"`
	StoryContent       string    `json:"story_content,omitempty"`
}

// StoryListResponse 故事列表响应
type StoryListResponse struct {
	Stories []*StoryResponse `json:"stories"`
}

// ToStoryResponse 转换为故事详情响应
func ToStoryResponse(s *entity.Story) *StoryResponse {
	return &StoryResponse{
		ID:                 s.ID,
		KidName:            s.KidName,
		KidAge:             s.KidAge,
		KidPhoto:           s.KidPhoto,
		Theme:              s.Theme,
		StoryType:          s.StoryType,
		Length:             s.Length,
		SpecialIngredients: s.SpecialIngredients,
		CreatedAt:          s.CreatedAt,
		StoryContent:       s.StoryContent,
	}
}

// ToStoryListResponse 转换为故事列表响应
func ToStoryListResponse(stories []*entity.Story) *StoryListResponse {
	out := make([]*StoryResponse, 0, len(stories))
	for _, s := range stories {
		out = append(out, ToStoryResponse(s))
	}
	return &StoryListResponse{Stories: out}
}
