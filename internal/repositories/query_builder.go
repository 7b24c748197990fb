// FileName: repositories/query_builder.go
package repositories

import (
	"encoding/json"
	"fmt"

	"github.com/jobse/job_search/constants"
	"github.com/jobse/job_search/internal/models"
)

// 高亮片段的包裹标记。前端按 CSS class 区分标题命中与标签命中。
const (
	titleHighlightPreTag = `<span class="title highlight">`
	tagHighlightPreTag   = `<span class="tag highlight">`
	highlightPostTag     = `</span>`
)

// buildPositionSearchQuery 根据职位查询参数构建 Elasticsearch 查询 DSL。
//
// 查询由一串可选子句按固定顺序累加而成，彼此以 AND 组合（bool.must）：
// 标题分词匹配 → 标签 OR 组（相对标题加权 2 倍）→ 工作地点全词匹配 →
// 学历上限 range → 薪资（provided==true 且 上界 >= 期望值）→ 经验上限 range。
// 所有过滤字段都未设置时直接生成 match_all 快路径，而不是一个空的 bool 查询——
// 两者虽然语义等价，但 match_all 可以让 ES 完全跳过布尔求值。
func buildPositionSearchQuery(q models.PositionQuery) ([]byte, error) {
	var queryDSL map[string]interface{}

	if q.IsDefault() {
		queryDSL = map[string]interface{}{
			"match_all": map[string]interface{}{},
		}
	} else {
		// 逐个累加可选子句；未设置的字段不产生子句（恒真），
		// 而不是塞入一个“永远为真”的占位条件。
		clauses := make([]map[string]interface{}, 0, 7)

		if q.Title != "" {
			clauses = append(clauses, map[string]interface{}{
				"match": map[string]interface{}{"title": q.Title},
			})
		}

		if len(q.Tags) > 0 {
			should := make([]map[string]interface{}, 0, len(q.Tags))
			for _, tag := range q.Tags {
				should = append(should, map[string]interface{}{
					"term": map[string]interface{}{
						"description.tags": map[string]interface{}{
							"value": tag,
							// 标签是精确信号，相对标题的分词匹配加权，
							// 让标签命中的职位排得更靠前。
							"boost": 2,
						},
					},
				})
			}
			clauses = append(clauses, map[string]interface{}{
				"bool": map[string]interface{}{"should": should},
			})
		}

		if q.Base != "" {
			clauses = append(clauses, map[string]interface{}{
				"term": map[string]interface{}{"requirement.base": q.Base},
			})
		}

		if q.Degree != models.DegreeNone {
			// “最高要求学历”过滤：返回学历要求不高于指定值的职位。
			clauses = append(clauses, map[string]interface{}{
				"range": map[string]interface{}{
					"requirement.degree": map[string]interface{}{"lte": int(q.Degree)},
				},
			})
		}

		if q.Salary > 0 {
			// 薪资过滤激活后，未提供薪资的职位被排除。
			clauses = append(clauses, map[string]interface{}{
				"term": map[string]interface{}{"salary.provided": true},
			})
			clauses = append(clauses, map[string]interface{}{
				"range": map[string]interface{}{
					"salary.amount.lte": map[string]interface{}{"gte": q.Salary},
				},
			})
		}

		if q.Experience >= 0 {
			clauses = append(clauses, map[string]interface{}{
				"range": map[string]interface{}{
					"requirement.experience": map[string]interface{}{"lte": q.Experience},
				},
			})
		}

		queryDSL = map[string]interface{}{
			"bool": map[string]interface{}{"must": clauses},
		}
	}

	esQuery := map[string]interface{}{
		"from":             q.Start,
		"size":             q.Limit,
		"track_total_hits": true,
		"sort":             positionSortClause(q.SortOrder),
		"query":            queryDSL,
		"highlight": map[string]interface{}{
			"fields": map[string]interface{}{
				"title":            plainHighlighter(titleHighlightPreTag),
				"description.tags": plainHighlighter(tagHighlightPreTag),
			},
		},
		// 正文与来源 URL 体积大且列表页用不到，统一从结果投影中剔除。
		"_source": map[string]interface{}{
			"excludes": []string{"description.description", "description.url"},
		},
	}

	queryJSON, err := json.Marshal(esQuery)
	if err != nil {
		return nil, fmt.Errorf("序列化职位搜索查询 DSL 失败: %w", err)
	}
	return queryJSON, nil
}

// positionSortClause 返回职位搜索的排序子句。只有一个排序键生效，
// 主键相同的文档顺序不做额外约束。
func positionSortClause(order models.SortOrder) []map[string]interface{} {
	var field string
	switch order {
	case models.SortByUpdateTime:
		field = "update_time"
	case models.SortByViews:
		field = "views"
	case models.SortByRating:
		field = "rating"
	default:
		field = "_score"
	}
	return []map[string]interface{}{
		{field: map[string]interface{}{"order": "desc"}},
	}
}

// plainHighlighter 生成 plain 高亮器配置。
func plainHighlighter(preTag string) map[string]interface{} {
	return map[string]interface{}{
		"type":      "plain",
		"pre_tags":  []string{preTag},
		"post_tags": []string{highlightPostTag},
	}
}

// buildCompanySearchQuery 构建公司搜索的查询 DSL：
// 名称分词匹配与标签 OR 组以 AND 组合，结果按相关性降序，
// 公司描述正文从投影中剔除。
func buildCompanySearchQuery(q models.CompanyQuery) ([]byte, error) {
	clauses := make([]map[string]interface{}, 0, 2)

	if q.Title != "" {
		clauses = append(clauses, map[string]interface{}{
			"match": map[string]interface{}{"name": q.Title},
		})
	}

	if len(q.Tags) > 0 {
		should := make([]map[string]interface{}, 0, len(q.Tags))
		for _, tag := range q.Tags {
			should = append(should, map[string]interface{}{
				"term": map[string]interface{}{"tags": tag},
			})
		}
		clauses = append(clauses, map[string]interface{}{
			"bool": map[string]interface{}{"should": should},
		})
	}

	var queryDSL map[string]interface{}
	if len(clauses) == 0 {
		queryDSL = map[string]interface{}{"match_all": map[string]interface{}{}}
	} else {
		queryDSL = map[string]interface{}{
			"bool": map[string]interface{}{"must": clauses},
		}
	}

	esQuery := map[string]interface{}{
		"from":             q.Start,
		"size":             q.Limit,
		"track_total_hits": true,
		"sort": []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
		},
		"query": queryDSL,
		"highlight": map[string]interface{}{
			"fields": map[string]interface{}{
				"name": plainHighlighter(titleHighlightPreTag),
				"tags": plainHighlighter(tagHighlightPreTag),
			},
		},
		"_source": map[string]interface{}{
			"excludes": []string{"description"},
		},
	}

	queryJSON, err := json.Marshal(esQuery)
	if err != nil {
		return nil, fmt.Errorf("序列化公司搜索查询 DSL 失败: %w", err)
	}
	return queryJSON, nil
}

// buildRelevantPositionQuery 构建相关职位推荐的查询 DSL：
// 按标题匹配，排除指定的职位文档自身，相关性降序取前 N 条。
func buildRelevantPositionQuery(q models.RelevantPositionQuery) ([]byte, error) {
	boolQuery := map[string]interface{}{
		"must": []map[string]interface{}{
			{"match": map[string]interface{}{"title": q.Title}},
		},
	}
	if q.Exclude != "" {
		boolQuery["must_not"] = []map[string]interface{}{
			{"ids": map[string]interface{}{"values": []string{q.Exclude}}},
		}
	}

	esQuery := map[string]interface{}{
		"size": q.Limit,
		"sort": []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
		},
		"query": map[string]interface{}{"bool": boolQuery},
		"_source": map[string]interface{}{
			"excludes": []string{"description"},
		},
	}

	queryJSON, err := json.Marshal(esQuery)
	if err != nil {
		return nil, fmt.Errorf("序列化相关职位查询 DSL 失败: %w", err)
	}
	return queryJSON, nil
}

// buildCompanyPositionsQuery 构建按公司列出职位的查询 DSL：
// company_id 精确过滤（constant_score，不参与评分），按更新时间降序分页。
func buildCompanyPositionsQuery(companyID string, start, limit int) ([]byte, error) {
	esQuery := map[string]interface{}{
		"from":             start,
		"size":             limit,
		"track_total_hits": true,
		"sort": []map[string]interface{}{
			{"update_time": map[string]interface{}{"order": "desc"}},
		},
		"query": map[string]interface{}{
			"constant_score": map[string]interface{}{
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"company_id": companyID},
				},
			},
		},
		"_source": map[string]interface{}{
			"excludes": []string{"description.description"},
		},
	}

	queryJSON, err := json.Marshal(esQuery)
	if err != nil {
		return nil, fmt.Errorf("序列化公司职位列表查询 DSL 失败: %w", err)
	}
	return queryJSON, nil
}

// buildPositionSuggestQuery 构建职位输入联想的查询 DSL：
// 标题匹配，相关性降序取前 5 条，只投影标题与浏览量。
func buildPositionSuggestQuery(keyword string) ([]byte, error) {
	esQuery := map[string]interface{}{
		"size": constants.SuggestionSize,
		"sort": []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
		},
		"query": map[string]interface{}{
			"match": map[string]interface{}{"title": keyword},
		},
		"_source": map[string]interface{}{
			"includes": []string{"title", "views"},
		},
	}

	queryJSON, err := json.Marshal(esQuery)
	if err != nil {
		return nil, fmt.Errorf("序列化职位联想查询 DSL 失败: %w", err)
	}
	return queryJSON, nil
}

// buildCompanySuggestQuery 构建公司输入联想的查询 DSL：
// 名称分词匹配或标签全词命中任一即可（bool.should）。
func buildCompanySuggestQuery(name string) ([]byte, error) {
	esQuery := map[string]interface{}{
		"size": constants.SuggestionSize,
		"sort": []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
		},
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []map[string]interface{}{
					{"match": map[string]interface{}{"name": name}},
					{"term": map[string]interface{}{"tags": name}},
				},
			},
		},
		"_source": map[string]interface{}{
			"excludes": []string{"description"},
		},
	}

	queryJSON, err := json.Marshal(esQuery)
	if err != nil {
		return nil, fmt.Errorf("序列化公司联想查询 DSL 失败: %w", err)
	}
	return queryJSON, nil
}

// buildCompanyStatisticsQuery 构建公司职位聚合统计的查询 DSL。
// size 为 0：只要聚合结果不要命中文档。薪资的加权平均以区间中点为值、
// salary.provided 为权重；薪资直方图用脚本把未提供薪资的职位归入负数桶。
func buildCompanyStatisticsQuery(companyID string) ([]byte, error) {
	esQuery := map[string]interface{}{
		"size": 0,
		"query": map[string]interface{}{
			"term": map[string]interface{}{"company_id": companyID},
		},
		"aggs": map[string]interface{}{
			"average_salary": map[string]interface{}{
				"weighted_avg": map[string]interface{}{
					"value": map[string]interface{}{
						"script": "(doc['salary.amount.gte'].value+doc['salary.amount.lte'].value)/2",
					},
					"weight": map[string]interface{}{"field": "salary.provided"},
				},
			},
			"average_rating": map[string]interface{}{
				"avg": map[string]interface{}{"field": "rating", "missing": 2.5},
			},
			"average_views": map[string]interface{}{
				"avg": map[string]interface{}{"field": "views", "missing": 0},
			},
			"tags": map[string]interface{}{
				"terms": map[string]interface{}{"field": "description.tags", "size": 50},
			},
			"salary_range": map[string]interface{}{
				"range": map[string]interface{}{
					"script": map[string]interface{}{
						"source": "if(doc['salary.provided'].value){ return (doc['salary.amount.gte'].value+doc['salary.amount.lte'].value)/2} return -1",
					},
					"ranges": []map[string]interface{}{
						{"to": 0},
						{"from": 0, "to": 3000},
						{"from": 3000, "to": 5000},
						{"from": 5000, "to": 10000},
						{"from": 10000, "to": 15000},
						{"from": 15000, "to": 25000},
						{"from": 25000},
					},
				},
			},
		},
	}

	queryJSON, err := json.Marshal(esQuery)
	if err != nil {
		return nil, fmt.Errorf("序列化公司统计聚合 DSL 失败: %w", err)
	}
	return queryJSON, nil
}
