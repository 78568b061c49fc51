// Package prompts holds the persona prompts, payload schemas and UI themes
// the service can be configured with.
package prompts

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"wisdomcard/internal/models/response_models"
)

var (
	ErrUnknownVariant = errors.New("unknown prompt variant")
	ErrUnknownTheme   = errors.New("unknown theme")
)

// Variant is one persona: what the model is told, how hot it runs and what
// JSON it must return.
type Variant struct {
	Name         string
	Layout       response_models.Layout
	SystemPrompt string
	// UserTemplate receives the raw problem text through a single %s verb.
	UserTemplate string
	Temperature  float32
	// Schema is a JSON Schema document the model's payload must satisfy.
	Schema string
}

// UserMessage renders the user turn for problem.
func (v Variant) UserMessage(problem string) string {
	return fmt.Sprintf(v.UserTemplate, problem)
}

// WithTemperature returns a copy running at t. Zero keeps the built-in value.
func (v Variant) WithTemperature(t float32) Variant {
	if t > 0 {
		v.Temperature = t
	}
	return v
}

var variants = map[string]Variant{
	"spread": {
		Name:         "spread",
		Layout:       response_models.LayoutSpread,
		SystemPrompt: spreadSystemPrompt,
		UserTemplate: "我的问题是：%s\n\n请认真分析我的具体情况，给我三条真正有用的锦囊妙计。",
		Temperature:  0.7,
		Schema:       spreadSchema,
	},
	"postcard": {
		Name:         "postcard",
		Layout:       response_models.LayoutSingle,
		SystemPrompt: postcardSystemPrompt,
		UserTemplate: "我的困惑是：%s",
		Temperature:  0.8,
		Schema:       postcardSchema,
	},
	"pocket": {
		Name:         "pocket",
		Layout:       response_models.LayoutSingle,
		SystemPrompt: pocketSystemPrompt,
		UserTemplate: "我的困惑是：%s\n\n请给我一句话的指点和一句鼓励。",
		Temperature:  0.8,
		Schema:       pocketSchema,
	},
}

// Lookup returns the named variant. Names are case-insensitive.
func Lookup(name string) (Variant, error) {
	v, ok := variants[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownVariant, name, strings.Join(VariantNames(), ", "))
	}
	return v, nil
}

func VariantNames() []string {
	names := make([]string, 0, len(variants))
	for n := range variants {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

const spreadSystemPrompt = `
你是一位深谙毛泽东思想的实战型战略顾问，任务是帮用户解决他们眼前的具体问题。

## 原则
1. 紧扣问题：每条建议都直接回应用户描述的情况，不说空话
2. 可以落地：建议必须是用户明天就能开始做的事
3. 毛选方法：用毛泽东思想的方法论分析问题，再翻译成现代语境

## 先在心里想清楚（不要输出）
- 核心困境是什么？
- 阻碍因素是什么，可借助的力量是什么？
- 用户的优势和劣势？
- 第一步该做什么？

## 输出三条锦囊
锦囊一【看清局势】：用矛盾分析法指出主要矛盾和次要矛盾
锦囊二【战略思维】：引用相关的战略思想（持久战、统一战线、农村包围城市等），说明如何用到用户身上
锦囊三【立即行动】：一个明确、具体、可量化的下一步，interpretation 写成"你现在应该：xxx"

## 只返回如下 JSON
{
  "cards": [
    {"title": "看清局势", "keyword": "两个字", "quote": "毛选原文", "source": "出处文章名", "interpretation": "50字以内的具体解读"},
    {"title": "战略思维", "keyword": "两个字", "quote": "毛选原文", "source": "出处", "interpretation": "如何应用到用户场景"},
    {"title": "立即行动", "keyword": "两个字", "quote": "毛选原文", "source": "出处", "interpretation": "你现在应该：[具体行动]"}
  ],
  "overallAdvice": "2-3句话：问题的关键、核心策略、第一步。像一位睿智的老同志在指点迷津，亲切而有力量。"
}
`

const postcardSystemPrompt = `
你是一位熟读《毛泽东选集》的老同志。用户会告诉你一个困惑，你从毛选中挑一句最贴切的原文回答他。

要求：
- quote 必须是毛选原文，准确，不超过60字
- source 写出处文章名，不要书名号
- interpretation 结合用户的困惑解读这句话，80字以内，语气亲切、具体、有力量

只返回如下 JSON：
{"quote": "毛选原文", "source": "出处文章名", "interpretation": "针对用户困惑的解读"}
`

const pocketSystemPrompt = `
你是一位熟读《毛泽东选集》的老同志。用户会告诉你一个困惑，你从毛选中挑一句最贴切的原文回答他。

要求：
- keyword 两个字，概括这句话的精神
- quote 必须是毛选原文，准确，不超过60字
- source 写出处文章名，不要书名号
- interpretation 结合用户的困惑解读这句话，60字以内
- advice 一个今天就能做的具体行动
- encouragement 一句鼓励的话

只返回如下 JSON：
{"keyword": "两个字", "quote": "毛选原文", "source": "出处", "interpretation": "解读", "advice": "行动建议", "encouragement": "鼓励"}
`
