package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Degree 表示职位要求的最低学历，按序数比较：None < JuniorCollege < Bachelor < Master < Doctor。
// 查询中 Degree 作为“最高可接受学历”过滤器使用（requirement.degree <= Degree）。
type Degree int

const (
	DegreeNone          Degree = iota // 不限
	DegreeJuniorCollege               // 大专
	DegreeBachelor                    // 本科（学士）
	DegreeMaster                      // 研究生（硕士）
	DegreeDoctor                      // 博士
)

// Position 表示存储在 Elasticsearch 职位索引中的文档结构。
type Position struct {
	Title       string         `json:"title"`       // 组合标题，形如 "公司名#职位名"，可分词查询。
	CompanyID   string         `json:"company_id"`  // 所属公司文档的 ID（keyword）。
	UpdateTime  time.Time      `json:"update_time"` // 职位最后更新时间。
	Rating      float64        `json:"rating"`      // 浏览量加权的平均评分，区间 [0, 5]。
	Views       int64          `json:"views"`       // 浏览次数，只增不减。
	Salary      Salary         `json:"salary"`      // 薪资信息。
	Requirement JobRequirement `json:"requirement"` // 任职要求。
	Description JobDescription `json:"description"` // 职位描述（正文与来源 URL 不参与检索投影）。
}

// Salary 描述职位的薪资区间；Provided 为 false 时 Amount 不具参考意义。
type Salary struct {
	Provided bool         `json:"provided"`
	Amount   SalaryAmount `json:"amount"`
}

// SalaryAmount 的字段名沿用 ES range 语义（gte 为下界，lte 为上界）。
type SalaryAmount struct {
	GreaterThanOrEqualTo float64 `json:"gte"`
	LessThanOrEqualTo    float64 `json:"lte"`
}

// JobRequirement 描述任职要求。
type JobRequirement struct {
	Experience int      `json:"experience"` // 经验要求，单位为月。
	Degree     Degree   `json:"degree"`     // 学历要求（序数）。
	Base       []string `json:"base"`       // 工作地点列表（keyword，全词匹配）。
}

// JobDescription 描述职位详情。
type JobDescription struct {
	URL         string   `json:"url"`         // 来源页面 URL，不索引。
	Description string   `json:"description"` // 职位描述正文，不索引。
	Tags        []string `json:"tags"`        // 职位标签（keyword）。
}

// PositionRecord 是权威 MySQL 库中 job 表的一行。
// 该表只由外部采集端写入、由同步协调器翻转 Uploaded 标志。
// tags 与 base 两列是 JSON 编码的字符串列表，使用前需要反序列化。
type PositionRecord struct {
	URL            string    `gorm:"column:url;primaryKey"`
	Title          string    `gorm:"column:title"`
	CompanyID      *string   `gorm:"column:company_id"`
	CompanyName    string    `gorm:"column:company_name"`
	UpdateTime     time.Time `gorm:"column:update_time"`
	SalaryProvided bool      `gorm:"column:salary_provided"`
	SalaryMin      float64   `gorm:"column:salary_min"`
	SalaryMax      float64   `gorm:"column:salary_max"`
	Experience     int       `gorm:"column:experience"`
	Degree         Degree    `gorm:"column:degree"`
	Base           string    `gorm:"column:base"`
	Description    string    `gorm:"column:description"`
	Tags           *string   `gorm:"column:tags"`
	Uploaded       bool      `gorm:"column:uploaded"`
}

// TableName 指定 gorm 映射的表名。
func (PositionRecord) TableName() string {
	return "job"
}

// ToDocument 将关系库记录转换为搜索索引的文档形式。
// 标题被改写为 "公司名#职位名" 的组合键，保持文档 ID 的自然键可读。
// tags/base 列的 JSON 反序列化失败会返回错误，由同步流程按单行失败隔离处理。
func (r *PositionRecord) ToDocument() (Position, error) {
	var base []string
	if err := json.Unmarshal([]byte(r.Base), &base); err != nil {
		return Position{}, fmt.Errorf("解析职位记录 (url: %s) 的 base 列失败: %w", r.URL, err)
	}

	var tags []string
	if r.Tags != nil {
		if err := json.Unmarshal([]byte(*r.Tags), &tags); err != nil {
			return Position{}, fmt.Errorf("解析职位记录 (url: %s) 的 tags 列失败: %w", r.URL, err)
		}
	}

	var companyID string
	if r.CompanyID != nil {
		companyID = *r.CompanyID
	}

	return Position{
		Title:      r.CompanyName + "#" + r.Title,
		CompanyID:  companyID,
		UpdateTime: r.UpdateTime,
		Salary: Salary{
			Provided: r.SalaryProvided,
			Amount: SalaryAmount{
				GreaterThanOrEqualTo: r.SalaryMin,
				LessThanOrEqualTo:    r.SalaryMax,
			},
		},
		Requirement: JobRequirement{
			Experience: r.Experience,
			Degree:     r.Degree,
			Base:       base,
		},
		Description: JobDescription{
			URL:         r.URL,
			Description: r.Description,
			Tags:        tags,
		},
	}, nil
}
