package models

// PositionInfo 是搜索结果中的一条职位：文档 ID、文档本身以及可选的高亮片段。
type PositionInfo struct {
	ID        string             `json:"id"`
	Position  Position           `json:"position"`
	Highlight *PositionHighlight `json:"highlight,omitempty"`
}

// PositionInfoList 是一页职位结果及总命中数。
type PositionInfoList struct {
	Total     int64          `json:"total"`
	Positions []PositionInfo `json:"positions"`
}

// PositionQueryRes 是职位搜索接口的完整响应：
// 职位列表外加按公司 ID 去重后的公司信息（描述正文已剥除）。
type PositionQueryRes struct {
	PositionList PositionInfoList    `json:"positionList"`
	Companies    map[string]*Company `json:"companies"`
}

// PositionDetail 是职位详情接口的响应。Company 可能为 nil（公司信息降级缺失）。
type PositionDetail struct {
	Position Position `json:"position"`
	Company  *Company `json:"company"`
}

// PositionSuggestion 是输入联想接口的单条结果，只投影标题与浏览量。
type PositionSuggestion struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Views int64  `json:"views"`
}

// CompanyInfo 是公司搜索结果中的一条记录。
type CompanyInfo struct {
	ID        string            `json:"id"`
	Company   Company           `json:"company"`
	Highlight *CompanyHighlight `json:"highlight,omitempty"`
}

// CompanyInfoList 是一页公司结果及总命中数。
type CompanyInfoList struct {
	Total       int64         `json:"total"`
	CompanyList []CompanyInfo `json:"companyList"`
}

// TagBucket 是公司统计中标签聚合的一个桶。
type TagBucket struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// CompanyStatistics 汇总一家公司全部职位的聚合统计。
// 平均值字段在没有可聚合文档时为 nil。
type CompanyStatistics struct {
	TotalCount       int64       `json:"totalCount"`
	AverageSalary    *float64    `json:"averageSalary"`    // 薪资区间中点的加权平均（仅统计提供薪资的职位）
	AverageRating    *float64    `json:"averageRating"`    // 平均评分，缺失值按 2.5 计
	AverageViewCount *float64    `json:"averageViewCount"` // 平均浏览量，缺失值按 0 计
	Tags             []TagBucket `json:"tags"`             // 职位标签的出现次数分布（前 50）
	SalaryRange      []int64     `json:"salaryRange"`      // 薪资区间直方图的各桶计数
}
