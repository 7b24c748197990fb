package constants

import "time"

const (
	// ServiceName 用于追踪与日志中的服务标识。
	ServiceName = "job-search-service"
	// ServiceVersion 当前服务版本号。
	ServiceVersion = "1.0.0"
)

const (
	// InitialPositionRating 是新职位文档写入搜索索引时的初始评分。
	InitialPositionRating = 5.0
	// MinRatingScore / MaxRatingScore 界定评分的合法区间。
	MinRatingScore = 0.0
	MaxRatingScore = 5.0
)

const (
	// HotTagWindow 是热门标签统计的滑动时间窗口：只有该窗口内被提及过的标签才参与排行。
	HotTagWindow = 30 * 24 * time.Hour
	// SuggestionSize 是输入联想接口固定返回的条目数。
	SuggestionSize = 5
)
