// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Story 故事实体：一次故事请求及其生成内容
type Story struct {
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

// NewStory 创建新故事记录
// ID 与 CreatedAt 在此一次性分配，之后不再变更；
// StoryContent 留空，由渲染器填充。
func NewStory(kidName string, kidAge int, kidPhoto, theme, storyType, length string, ingredients []string) *Story {
	// 每条记录持有独立切片，避免共享默认值
	copied := make([]string, len(ingredients))
	copy(copied, ingredients)

	return &Story{
		ID:                 uuid.New().String(),
		KidName:            kidName,
		KidAge:             kidAge,
		KidPhoto:           kidPhoto,
		Theme:              theme,
		StoryType:          storyType,
		Length:             length,
		SpecialIngredients: copied,
		CreatedAt:          time.Now().UTC(),
	}
}

// HasContent 检查故事内容是否已生成
func (s *Story) HasContent() bool {
	return s.StoryContent != ""
}
