package sessions

import "errors"

var (
	ErrNotFound           = errors.New("session not found")
	ErrEmptyInput         = errors.New("input text is empty")
	ErrUnknownTheme       = errors.New("unknown theme")
	ErrGenerationInFlight = errors.New("generation already in progress")
	ErrSuperseded         = errors.New("generation superseded by a newer request")
)

// User-visible messages shown beside the preview.
const (
	MessageEmptyInput     = "请输入您的个人资料或工作经历信息。"
	MessageNoData         = "无法生成简历数据，请尝试提供更详细的信息。"
	MessageMalformed      = "AI 返回的简历数据不完整，请重试或补充信息。"
	MessageServiceFailure = "调用 AI 服务失败，请检查网络或 API 配置。"
)
