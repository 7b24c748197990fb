// FileName: api/company_handler.go
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

// CompanyHandler 封装公司相关的 API 请求处理逻辑。
type CompanyHandler struct {
	companyService  *service.CompanyService
	positionService *service.PositionService
	logger          *zap.Logger
}

// NewCompanyHandler 创建 CompanyHandler 实例。
func NewCompanyHandler(companySvc *service.CompanyService, positionSvc *service.PositionService, logger *zap.Logger) *CompanyHandler {
	if logger == nil {
		panic("NewCompanyHandler: logger 不能为 nil")
	}
	if companySvc == nil || positionSvc == nil {
		logger.Fatal("NewCompanyHandler: 服务依赖不能为 nil")
	}
	return &CompanyHandler{
		companyService:  companySvc,
		positionService: positionSvc,
		logger:          logger,
	}
}

// SearchCompanies 处理公司搜索请求
// @Summary      搜索公司
// @Description  按名称与标签搜索公司
// @Tags         Company
// @Produce      json
// @Param        title  query  string    false  "公司名称关键词"
// @Param        tags   query  []string  false  "公司标签（可多值，彼此为 OR）"
// @Param        start  query  int       false  "分页起点"  default(0)
// @Param        limit  query  int       false  "分页大小"  default(10)
// @Success      200  {object}  APIResponse "搜索成功"
// @Failure      400  {object}  APIResponse "请求参数无效"
// @Failure      500  {object}  APIResponse "搜索服务内部错误"
// @Router       /api/v1/companies/search [get]
func (h *CompanyHandler) SearchCompanies(c *gin.Context) {
	var query models.CompanyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Warn("公司搜索参数绑定失败", zap.Error(err))
		RespondError(c, http.StatusBadRequest, ErrCodeClientInvalidInput, "请求参数无效")
		return
	}

	res, err := h.companyService.Search(c.Request.Context(), query)
	if err != nil {
		h.logger.Error("服务层公司搜索失败", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, ErrCodeServerInternal, "搜索服务内部错误")
		return
	}
	RespondSuccess(c, res, "搜索成功")
}

// GetCompanyDetail 处理公司详情请求
// @Summary      获取公司详情
// @Description  按文档 ID 返回公司详情（含描述正文）
// @Tags         Company
// @Produce      json
// @Param        id   path      string  true  "公司文档 ID"
// @Success      200  {object}  APIResponse "获取成功"
// @Failure      404  {object}  APIResponse "公司不存在"
// @Failure      500  {object}  APIResponse "服务内部错误"
// @Router       /api/v1/companies/{id} [get]
func (h *CompanyHandler) GetCompanyDetail(c *gin.Context) {
	id := c.Param("id")

	company, err := h.companyService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrCompanyNotFound) {
			RespondError(c, http.StatusNotFound, ErrCodeClientNotFound, "公司不存在")
			return
		}
		h.logger.Error("获取公司详情失败", zap.String("document_id", id), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, ErrCodeServerInternal, "获取公司详情失败")
		return
	}
	RespondSuccess(c, company, "获取成功")
}

// ListCompanyPositions 处理公司职位列表请求
// @Summary      列出公司职位
// @Description  按公司 ID 列出其全部职位，按更新时间降序分页
// @Tags         Company
// @Produce      json
// @Param        id     path   string  true   "公司文档 ID"
// @Param        start  query  int     false  "分页起点"  default(0)
// @Param        limit  query  int     false  "分页大小"  default(10)
// @Success      200  {object}  APIResponse "获取成功"
// @Failure      500  {object}  APIResponse "服务内部错误"
// @Router       /api/v1/companies/{id}/positions [get]
func (h *CompanyHandler) ListCompanyPositions(c *gin.Context) {
	id := c.Param("id")
	start, limit := parsePagination(c)

	list, err := h.positionService.ListByCompany(c.Request.Context(), id, start, limit)
	if err != nil {
		h.logger.Error("列出公司职位失败", zap.String("company_id", id), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, ErrCodeServerInternal, "列出公司职位失败")
		return
	}
	RespondSuccess(c, list, "获取成功")
}

// GetCompanyPositionCount 处理公司职位计数请求
// @Summary      公司职位总数
// @Tags         Company
// @Produce      json
// @Param        id   path      string  true  "公司文档 ID"
// @Success      200  {object}  APIResponse "获取成功"
// @Failure      500  {object}  APIResponse "服务内部错误"
// @Router       /api/v1/companies/{id}/positions/count [get]
func (h *CompanyHandler) GetCompanyPositionCount(c *gin.Context) {
	id := c.Param("id")

	count, err := h.companyService.PositionCount(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("统计公司职位数失败", zap.String("company_id", id), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, ErrCodeServerInternal, "统计公司职位数失败")
		return
	}
	RespondSuccess(c, gin.H{"count": count}, "获取成功")
}

// GetCompanyStatistics 处理公司统计聚合请求
// @Summary      公司职位统计
// @Description  返回公司全部职位的平均薪资/评分/浏览量、标签分布与薪资直方图
// @Tags         Company
// @Produce      json
// @Param        id   path      string  true  "公司文档 ID"
// @Success      200  {object}  APIResponse "获取成功"
// @Failure      500  {object}  APIResponse "服务内部错误"
// @Router       /api/v1/companies/{id}/statistics [get]
func (h *CompanyHandler) GetCompanyStatistics(c *gin.Context) {
	id := c.Param("id")

	stats, err := h.companyService.Statistics(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("聚合公司统计失败", zap.String("company_id", id), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, ErrCodeServerInternal, "聚合公司统计失败")
		return
	}
	RespondSuccess(c, stats, "获取成功")
}

// SuggestCompanies 处理公司输入联想请求
// @Summary      公司输入联想
// @Description  按名称或标签返回至多 5 条公司联想
// @Tags         Company
// @Produce      json
// @Param        keyword  query  string  true  "联想关键词"
// @Success      200  {object}  APIResponse "获取成功"
// @Failure      400  {object}  APIResponse "关键词为空"
// @Failure      500  {object}  APIResponse "服务内部错误"
// @Router       /api/v1/companies/suggest [get]
func (h *CompanyHandler) SuggestCompanies(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		RespondError(c, http.StatusBadRequest, ErrCodeClientInvalidInput, "联想关键字不能为空")
		return
	}

	suggestions, err := h.companyService.Suggest(c.Request.Context(), keyword)
	if err != nil {
		h.logger.Error("公司联想失败", zap.String("keyword", keyword), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, ErrCodeServerInternal, "公司联想失败")
		return
	}
	if suggestions == nil {
		suggestions = make([]models.CompanyInfo, 0)
	}
	RespondSuccess(c, suggestions, "获取成功")
}

// parsePagination 解析分页参数并收敛到合法区间。
func parsePagination(c *gin.Context) (start, limit int) {
	start, err := strconv.Atoi(c.DefaultQuery("start", "0"))
	if err != nil || start < 0 {
		start = 0
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	} else if limit > 100 {
		limit = 100
	}
	return start, limit
}

// RegisterRoutes 将公司相关的路由注册到提供的 Gin 路由组上。
func (h *CompanyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.SearchCompanies)
	rg.GET("/suggest", h.SuggestCompanies)
	rg.GET("/:id", h.GetCompanyDetail)
	rg.GET("/:id/positions", h.ListCompanyPositions)
	rg.GET("/:id/positions/count", h.GetCompanyPositionCount)
	rg.GET("/:id/statistics", h.GetCompanyStatistics)
	h.logger.Info("CompanyHandler 的所有路由已注册完成")
}
