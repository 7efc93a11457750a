package prompt

import "github.com/doeshing/aish/internal/domain"

// MessageSet holds the operator-facing strings for one locale.
type MessageSet struct {
	Thinking       string
	DebugHeader    string
	SystemPrompt   string
	UserPrompt     string
	GeneratedCmd   string
	Dangerous      string
	ConfirmExecute string
	Executing      string
	Succeeded      string
	Failed         string
	ConfirmGoal    string
	MaxAttempts    string
	DryRun         string
	Declined       string
}

var messagesByLocale = map[domain.Locale]MessageSet{
	domain.LocaleEnglish: {
		Thinking:       "🤔 Thinking...",
		DebugHeader:    "🔍 Debug information:",
		SystemPrompt:   "System prompt:",
		UserPrompt:     "User prompt:",
		GeneratedCmd:   "📝 Generated command:",
		Dangerous:      "⚠️  Warning: potentially dangerous command detected, refusing to execute!",
		ConfirmExecute: "Execute this command?",
		Executing:      "🚀 Executing command...",
		Succeeded:      "✅ Command succeeded!",
		Failed:         "❌ Command failed:",
		ConfirmGoal:    "Did the command achieve the expected goal?",
		MaxAttempts:    "⚠️  Maximum number of attempts reached, stopping.",
		DryRun:         "Dry run: command not executed.",
		Declined:       "Command not executed.",
	},
	domain.LocaleChinese: {
		Thinking:       "🤔 正在思考中...",
		DebugHeader:    "🔍 调试信息：",
		SystemPrompt:   "系统提示：",
		UserPrompt:     "用户提示：",
		GeneratedCmd:   "📝 生成的命令：",
		Dangerous:      "⚠️  警告：检测到潜在的危险命令，拒绝执行！",
		ConfirmExecute: "是否要执行这个命令？",
		Executing:      "🚀 正在执行命令...",
		Succeeded:      "✅ 命令执行成功！",
		Failed:         "❌ 命令执行失败：",
		ConfirmGoal:    "命令是否达到了预期目标？",
		MaxAttempts:    "⚠️  已达到最大尝试次数，程序终止。",
		DryRun:         "演练模式：命令未执行。",
		Declined:       "命令未执行。",
	},
}

// Messages returns the strings for locale, English when the locale is unknown.
func Messages(locale domain.Locale) MessageSet {
	if set, ok := messagesByLocale[locale]; ok {
		return set
	}
	return messagesByLocale[domain.LocaleEnglish]
}
