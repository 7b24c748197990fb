package models

// SortOrder 表示职位搜索结果的排序方式。任意时刻只有一个排序键生效，
// 主键相同的文档顺序由搜索引擎的自然顺序决定，系统不额外定义次级排序。
type SortOrder int

const (
	SortByUpdateTime SortOrder = iota // 按更新时间降序
	SortByRelevance                   // 按相关性评分降序（默认）
	SortByViews                       // 按浏览量降序
	SortByRating                      // 按评分降序
)

// PositionQuery 定义职位搜索请求的全部过滤参数及其“未设置”哨兵值：
// 空字符串 / 零值 / -1 / 空集合。所有过滤条件均为可选。
type PositionQuery struct {
	Title      string    `form:"title"`                   // 职位名称，分词查询；为空则不按标题过滤
	Tags       []string  `form:"tags"`                    // 标签集合，全词匹配，彼此间为 OR
	Base       string    `form:"base"`                    // 工作地点，全词匹配；为空则不限
	Degree     Degree    `form:"degree"`                  // 最高可接受学历；None(0) 则不限
	Salary     float64   `form:"salary"`                  // 期望薪资下限；0 则不限
	Experience int       `form:"experience,default=-1"`   // 经验上限，单位为月；-1 为不限
	SortOrder  SortOrder `form:"sortOrder"`               // 排序方式
	Start      int       `form:"start" binding:"min=0"`   // 分页起点
	Limit      int       `form:"limit,default=10" binding:"min=1,max=100"` // 分页大小
}

// IsDefault 判断是否所有可选过滤字段均处于“未设置”哨兵值。
// 为真时查询构建器直接生成 match_all 快路径，而不是一串恒真的布尔子句。
// 此谓词覆盖的字段集合是对外契约的一部分，增删字段都会意外放宽或收窄快路径。
func (q *PositionQuery) IsDefault() bool {
	return q.Title == "" && q.Base == "" && q.Degree == DegreeNone &&
		q.Salary == 0 && q.Experience == -1 && len(q.Tags) == 0
}

// CompanyQuery 定义公司搜索请求的参数。
type CompanyQuery struct {
	Title string   `form:"title"` // 公司名称，分词查询
	Tags  []string `form:"tags"`  // 标签集合，全词匹配，彼此间为 OR
	Start int      `form:"start" binding:"min=0"`
	Limit int      `form:"limit,default=10" binding:"min=1,max=100"`
}

// RelevantPositionQuery 定义相关职位推荐的参数：按标题匹配，
// 并排除当前正在浏览的职位自身。
type RelevantPositionQuery struct {
	Title   string `form:"title" binding:"required"` // 当前职位标题
	Limit   int    `form:"limit,default=10" binding:"min=1,max=100"`
	Exclude string `form:"exclude"` // 要排除的职位文档 ID
}
