// Package story 提供故事文本渲染能力。
// 渲染是纯计算：同样的输入产生字节一致的输出，过程中不做任何 I/O。
package story

import (
	"fmt"
	"strings"

	"storybook-api/internal/domain/entity"
)

// 主题 -> 场景描述。未收录的主题统一回退到 fallbackSetting，
// 渲染对未知输入只降级、不报错。
var themeSettings = map[string]string{
	"forest":   "deep in a magical forest filled with talking animals",
	"space":    "on an exciting journey through the stars and planets",
	"ocean":    "in the depths of the ocean with colorful sea creatures",
	"castle":   "in a grand castle with brave knights and wise princesses",
	"dinosaur": "in prehistoric times with friendly dinosaurs",
	"fairy":    "in an enchanted fairy kingdom with magical powers",
}

// 篇幅 -> 节奏描述，回退策略同上
var lengthPacing = map[string]string{
	"short":  "a quick but exciting",
	"medium": "a wonderful",
	"long":   "an epic and detailed",
}

const (
	fallbackSetting     = "in a magical world"
	fallbackPacing      = "an amazing"
	fallbackIngredients = "special surprises"
)

const storyTemplate = `Once upon a time, there was a brave and curious child named %[1]s who was %[2]d years old.

One magical day, %[1]s found themselves %[3]s. This was the beginning of %[4]s adventure!

Along the way, %[1]s discovered %[5]s that would help them on their journey.

This %[6]s story was filled with wonder, excitement, and magical moments that %[1]s would remember forever!

The End.`

// Renderer 故事文本渲染器
type Renderer struct{}

// NewRenderer 创建渲染器
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render 根据故事参数渲染成品文本
//
// 查表解析场景与节奏短语，拼接佐料列表（保持输入顺序），
// 最后代入固定的五段式模板。kid_photo 不参与渲染。
func (r *Renderer) Render(s *entity.Story) string {
	setting, ok := themeSettings[s.Theme]
	if !ok {
		setting = fallbackSetting
	}

	pacing, ok := lengthPacing[s.Length]
	if !ok {
		pacing = fallbackPacing
	}

	ingredients := fallbackIngredients
	if len(s.SpecialIngredients) > 0 {
		ingredients = strings.Join(s.SpecialIngredients, ", ")
	}

	content := fmt.Sprintf(storyTemplate,
		s.KidName, s.KidAge, setting, pacing, ingredients, s.StoryType,
	)

	return strings.TrimSpace(content)
}
