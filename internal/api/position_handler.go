// FileName: api/position_handler.go
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jobse/job_search/internal/models"
	"github.com/jobse/job_search/internal/repositories"
	"github.com/jobse/job_search/internal/service"
	"go.uber.org/zap"
)

// PositionHandler 封装职位相关的 API 请求处理逻辑。
type PositionHandler struct {
	positionService *service.PositionService
	tagService      *service.TagService
	logger          *zap.Logger
}

// NewPositionHandler 创建 PositionHandler 实例。
func NewPositionHandler(positionSvc *service.PositionService, tagSvc *service.TagService, logger *zap.Logger) *PositionHandler {
	if logger == nil {
		panic("NewPositionHandler: logger 不能为 nil")
	}
	if positionSvc == nil || tagSvc == nil {
		logger.Fatal("NewPositionHandler: 服务依赖不能为 nil")
	}
	return &PositionHandler{
		positionService: positionSvc,
		tagService:      tagSvc,
		logger:          logger,
	}
}

// SearchPositions 处理职位搜索请求
// @Summary      搜索职位
// @Description  按标题、标签、地点、学历、薪资、经验等条件搜索职位，返回结果及涉及的公司信息
// @Tags         Position
// @Produce      json
// @Param        title      query  string    false  "职位名称关键词"
// @Param        tags       query  []string  false  "职位标签（可多值，彼此为 OR）"
// @Param        base       query  string    false  "工作地点"
// @Param        degree     query  int       false  "最高可接受学历 (0 不限)"
// @Param        salary     query  number    false  "期望薪资下限 (0 不限)"
// @Param        experience query  int       false  "经验上限（月），-1 不限"  default(-1)
// @Param        sortOrder  query  int       false  "排序: 0 更新时间 / 1 相关性 / 2 浏览量 / 3 评分"
// @Param        start      query  int       false  "分页起点"  default(0)
// @Param        limit      query  int       false  "分页大小"  default(10)
// @Success      200  {object}  APIResponse "搜索成功"
// @Failure      400  {object}  APIResponse "请求参数无效"
// @Failure      500  {object}  APIResponse "搜索服务内部错误"
// @Router       /api/v1/positions/search [get]
func (h *PositionHandler) SearchPositions(c *gin.Context) {
	var query models.PositionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Warn("职位搜索参数绑定失败", zap.Error(err))
		RespondError(c, http.StatusBadRequest, ErrCodeClientInvalidInput, "请求参数无效")
		return
	}
	h.logger.Debug("绑定后的职位搜索请求", zap.Any("query", query))

	res, err := h.positionService.Search(c.Request.Context(), query)
	if err != nil {
		h.logger.Error("服务层职位搜索失败", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, ErrCodeServerInternal, "搜索服务内部错误")
		return
	}
	RespondSuccess(c, res, "搜索成功")
}

// GetPositionDetail 处理职位详情请求
// @Summary      获取职位详情
// @Description  按文档 ID 返回职位详情（含公司信息），浏览量加一
// @Tags         Position
// @Produce      json
// @Param        id   path      string  true  "职位文档 ID"
// @Success      200  {object}  APIResponse "获取成功"
// @Failure      404  {object}  APIResponse "职位不存在"
// @Failure      500  {object}  APIResponse "服务内部错误"
// @Router       /api/v1/positions/{id} [get]
func (h *PositionHandler) GetPositionDetail(c *gin.Context) {
	id := c.Param("id")

	detail, err := h.positionService.Detail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrPositionNotFound) {
			RespondError(c, http.StatusNotFound, ErrCodeClientNotFound, "职位不存在")
			return
		}
		h.logger.Error("获取职位详情失败", zap.String("document_id", id), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, ErrCodeServerInternal, "获取职位详情失败")
		return
	}
	RespondSuccess(c, detail, "获取成功")
}

// RatePosition 处理职位评分请求
// @Summary      提交职位评分
// @Description  对职位提交一次 [0,5] 区间的评分，返回更新后的平均评分
// @Tags         Position
// @Produce      json
// @Param        id     path   string  true  "职位文档 ID"
// @Param        score  query  number  true  "评分，区间 [0, 5]"
// @Success      200  {object}  APIResponse "评分成功"
// @Failure      400  {object}  APIResponse "评分超出合法区间"
// @Failure      404  {object}  APIResponse "职位不存在"
// @Failure      500  {object}  APIResponse "服务内部错误"
// @Router       /api/v1/positions/{id}/rating [post]
func (h *PositionHandler) RatePosition(c *gin.Context) {
	id := c.Param("id")

	score, err := strconv.ParseFloat(c.Query("score"), 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, ErrCodeClientInvalidInput, "评分参数无效")
		return
	}

	rating, err := h.positionService.Rate(c.Request.Context(), id, score)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRatingScore):
			RespondError(c, http.StatusBadRequest, ErrCodeClientInvalidInput, err.Error())
		case errors.Is(err, repositories.ErrPositionNotFound):
			RespondError(c, http.StatusNotFound, ErrCodeClientNotFound, "职位不存在")
		default:
			h.logger.Error("职位评分失败", zap.String("document_id", id), zap.Error(err))
			RespondError(c, http.StatusInternalServerError, ErrCodeServerInternal, "职位评分失败")
		}
		return
	}
	RespondSuccess(c, gin.H{"rating": rating}, "评分成功")
}

// GetRelevantPositions 处理相关职位推荐请求
// @Summary      获取相关职位
// @Description  按标题匹配相关职位，排除当前职位自身
// @Tags         Position
// @Produce      json
// @Param        title    query  string  true   "当前职位标题"
// @Param        exclude  query  string  false  "要排除的职位文档 ID"
// @Param        limit    query  int     false  "返回数量"  default(10)
// @Success      200  {object}  APIResponse "获取成功"
// @Failure      400  {object}  APIResponse "请求参数无效"
// @Failure      500  {object}  APIResponse "服务内部错误"
// @Router       /api/v1/positions/relevant [get]
func (h *PositionHandler) GetRelevantPositions(c *gin.Context) {
	var query models.RelevantPositionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Warn("相关职位参数绑定失败", zap.Error(err))
		RespondError(c, http.StatusBadRequest, ErrCodeClientInvalidInput, "请求参数无效")
		return
	}

	res, err := h.positionService.Relevant(c.Request.Context(), query)
	if err != nil {
		h.logger.Error("获取相关职位失败", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, ErrCodeServerInternal, "获取相关职位失败")
		return
	}
	RespondSuccess(c, res, "获取成功")
}

// SuggestPositions 处理职位输入联想请求
// @Summary      职位输入联想
// @Description  按关键词返回至多 5 条职位标题联想
// @Tags         Position
// @Produce      json
// @Param        keyword  query  string  true  "联想关键词"
// @Success      200  {object}  APIResponse "获取成功"
// @Failure      400  {object}  APIResponse "关键词为空"
// @Failure      500  {object}  APIResponse "服务内部错误"
// @Router       /api/v1/positions/suggest [get]
func (h *PositionHandler) SuggestPositions(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		RespondError(c, http.StatusBadRequest, ErrCodeClientInvalidInput, "联想关键字不能为空")
		return
	}

	suggestions, err := h.positionService.Suggest(c.Request.Context(), keyword)
	if err != nil {
		h.logger.Error("职位联想失败", zap.String("keyword", keyword), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, ErrCodeServerInternal, "职位联想失败")
		return
	}
	if suggestions == nil {
		suggestions = make([]models.PositionSuggestion, 0)
	}
	RespondSuccess(c, suggestions, "获取成功")
}

// GetHotTags 处理热门标签排行请求
// @Summary      获取热门标签
// @Description  返回最近 30 天内按提及次数降序的热门标签
// @Tags         Position
// @Produce      json
// @Param        limit  query  int  false  "返回数量"  default(10)
// @Success      200  {object}  APIResponse "获取成功"
// @Failure      500  {object}  APIResponse "服务内部错误"
// @Router       /api/v1/positions/hot-tags [get]
func (h *PositionHandler) GetHotTags(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "10")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 10
	} else if limit > 50 {
		limit = 50
	}

	tags, err := h.tagService.HotTags(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("获取热门标签失败", zap.Int("limit", limit), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, ErrCodeServerInternal, "获取热门标签失败")
		return
	}
	if tags == nil {
		tags = make([]models.HotTag, 0)
	}
	RespondSuccess(c, tags, "获取成功")
}

// HealthCheck 健康检查处理函数。
func (h *PositionHandler) HealthCheck(c *gin.Context) {
	h.logger.Debug("执行存活度健康检查")
	RespondSuccess(c, gin.H{"status": "ok"}, "服务存活")
}

// RegisterRoutes 将职位相关的路由注册到提供的 Gin 路由组上。
func (h *PositionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.SearchPositions)
	rg.GET("/relevant", h.GetRelevantPositions)
	rg.GET("/suggest", h.SuggestPositions)
	rg.GET("/hot-tags", h.GetHotTags)
	rg.GET("/:id", h.GetPositionDetail)
	rg.POST("/:id/rating", h.RatePosition)
	h.logger.Info("PositionHandler 的所有路由已注册完成")
}
