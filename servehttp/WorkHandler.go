package servehttp

import (
	"corework/bizerror"
	"corework/common"
	"corework/domain"
	"corework/domain/work"
	"corework/session"
	"errors"
	"net/http"
	"strconv"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterWorkHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	// group: "", version: v1, resource: work
	g := r.Group("/v1/works", middleWares...)

	handler := &workHandler{validator: validator.New()}

	g.POST("", handler.handleCreate)
	g.GET("", handler.handleSearch)
	g.GET(":id", handler.handleDetail)
	g.PUT(":id", handler.handleUpdate)
	g.POST(":id/review", handler.handleReview)
	g.GET(":id/histories", handler.handleHistory)

	g.POST(":id/activities", handler.handleCreateActivity)
	g.GET(":id/activities", handler.handleListActivities)
	g.PUT(":id/activities/:activityId/status", handler.handleSetActivityStatus)
	g.GET(":id/activities/:activityId/histories", handler.handleActivityHistory)

	s := r.Group("/v1/work-statistics", middleWares...)
	s.GET("", handler.handleStatistics)
}

type workHandler struct {
	validator *validator.Validate
}

func (h *workHandler) handleCreate(c *gin.Context) {
	creation := domain.WorkCreation{}
	err := c.ShouldBindBodyWith(&creation, binding.JSON)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err = h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	detail, err := work.CreateWorkFunc(&creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, detail)
}

func (h *workHandler) handleDetail(c *gin.Context) {
	id := parseIdParam(c, "id")
	withHistory, _ := strconv.ParseBool(c.DefaultQuery("withHistory", "false"))

	detail, err := work.DetailWorkFunc(id, withHistory, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, detail)
}

func (h *workHandler) handleSearch(c *gin.Context) {
	query := domain.WorkSearch{}
	if err := c.ShouldBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	works, err := work.SearchWorksFunc(&query, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: works, Total: uint64(len(works))})
}

func (h *workHandler) handleUpdate(c *gin.Context) {
	id := parseIdParam(c, "id")

	updating := domain.WorkUpdating{}
	err := c.ShouldBindBodyWith(&updating, binding.JSON)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err = h.validator.Struct(updating); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	updatedWork, err := work.UpdateWorkFunc(id, &updating, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, updatedWork)
}

func (h *workHandler) handleReview(c *gin.Context) {
	id := parseIdParam(c, "id")

	review := domain.WorkReview{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindBodyWith(&review, binding.JSON); err != nil {
			panic(&bizerror.ErrBadParam{Cause: err})
		}
		if err := h.validator.Struct(review); err != nil {
			panic(&bizerror.ErrBadParam{Cause: err})
		}
	}

	if err := work.ReviewWorkFunc(id, &review, session.FindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}

func (h *workHandler) handleHistory(c *gin.Context) {
	id := parseIdParam(c, "id")

	records, err := work.LoadWorkHistoryFunc(id, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func (h *workHandler) handleCreateActivity(c *gin.Context) {
	workId := parseIdParam(c, "id")

	creation := domain.ActivityCreation{}
	err := c.ShouldBindBodyWith(&creation, binding.JSON)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	// the path is authoritative for the owning work
	creation.WorkID = workId
	if err = h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	detail, err := work.CreateActivityFunc(&creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, detail)
}

func (h *workHandler) handleListActivities(c *gin.Context) {
	workId := parseIdParam(c, "id")

	activities, err := work.ListActivitiesFunc(workId, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: activities, Total: uint64(len(activities))})
}

func (h *workHandler) handleSetActivityStatus(c *gin.Context) {
	workId := parseIdParam(c, "id")
	activityId := parseIdParam(c, "activityId")

	updating := domain.ActivityStatusUpdating{}
	err := c.ShouldBindBodyWith(&updating, binding.JSON)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err = h.validator.Struct(updating); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	if err := work.SetActivityStatusFunc(workId, activityId, &updating, session.FindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}

func (h *workHandler) handleActivityHistory(c *gin.Context) {
	workId := parseIdParam(c, "id")
	activityId := parseIdParam(c, "activityId")

	records, err := work.LoadActivityHistory(workId, activityId, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func (h *workHandler) handleStatistics(c *gin.Context) {
	domainIdValue := c.Query("domainId")
	if domainIdValue == "" {
		stats, err := work.WorkStatusStatisticsFunc()
		if err != nil {
			panic(err)
		}
		c.JSON(http.StatusOK, stats)
		return
	}

	domainId, err := types.ParseID(domainIdValue)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid domainId '" + domainIdValue + "'")})
	}
	stats, err := work.WorkStatusStatisticsByDomain(domainId)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, stats)
}

func parseIdParam(c *gin.Context, name string) types.ID {
	parsedId, err := types.ParseID(c.Param(name))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid " + name + " '" + c.Param(name) + "'")})
	}
	return parsedId
}
