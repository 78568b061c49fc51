package prompts

import (
	"fmt"
	"strings"
	"time"
)

// Theme is the copy a page is dressed in. It carries no behaviour.
type Theme struct {
	Name            string
	Title           string
	Tagline         string
	Placeholder     string
	SubmitLabel     string
	ResetLabel      string
	RetryLabel      string
	ErrorMessage    string
	Suggestions     []string
	LoadingMessages []string
}

// LoadingMessageInterval is how long each loading message stays up.
const LoadingMessageInterval = 2 * time.Second

// LoadingMessage picks the message to show after elapsed time in LOADING.
func (t Theme) LoadingMessage(elapsed time.Duration) string {
	if len(t.LoadingMessages) == 0 {
		return ""
	}
	if elapsed < 0 {
		elapsed = 0
	}
	i := int(elapsed/LoadingMessageInterval) % len(t.LoadingMessages)
	return t.LoadingMessages[i]
}

// Suggestion returns the i-th shortcut, ok=false when out of range.
func (t Theme) Suggestion(i int) (string, bool) {
	if i < 0 || i >= len(t.Suggestions) {
		return "", false
	}
	return t.Suggestions[i], true
}

var themes = map[string]Theme{
	"red": {
		Name:         "red",
		Title:        "毛选答案",
		Tagline:      "遇事不决 · 问问毛选",
		Placeholder:  "说说你的困惑...",
		SubmitLabel:  "求 签",
		ResetLabel:   "再问一签",
		RetryLabel:   "重试",
		ErrorMessage: "出了点问题",
		Suggestions: []string{
			"工作遇到瓶颈怎么办",
			"团队不好带怎么破",
			"创业方向很迷茫",
		},
		LoadingMessages: []string{
			"翻阅毛选中...",
			"分析主要矛盾...",
			"研判敌我形势...",
		},
	},
	"ink": {
		Name:         "ink",
		Title:        "锦囊妙计",
		Tagline:      "三条锦囊 · 拨开迷雾",
		Placeholder:  "写下你眼前的难题...",
		SubmitLabel:  "开 锦 囊",
		ResetLabel:   "再开一次",
		RetryLabel:   "重试",
		ErrorMessage: "锦囊没能打开，请稍后再试",
		Suggestions: []string{
			"升职无望要不要跳槽",
			"和合伙人意见不合",
			"考研还是直接工作",
		},
		LoadingMessages: []string{
			"正在研墨...",
			"正在落笔...",
			"正在封囊...",
		},
	},
}

func LookupTheme(name string) (Theme, error) {
	t, ok := themes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return t, nil
}
