package servehttp

import (
	"corework/bizerror"
	"corework/domain/worktype"
	"corework/session"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterWorkTypeHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/work-types", middleWares...)

	handler := &workTypeHandler{validator: validator.New()}

	g.POST("", handler.handleCreate)
	g.GET(":id", handler.handleDetail)
	g.PUT(":id", handler.handleUpdate)
	g.DELETE(":id", handler.handleDelete)

	a := r.Group("/v1/activity-types", middleWares...)
	a.POST("", handler.handleCreateActivityType)
	a.GET(":id", handler.handleDetailActivityType)
}

type workTypeHandler struct {
	validator *validator.Validate
}

func (h *workTypeHandler) handleCreate(c *gin.Context) {
	creation := worktype.WorkTypeCreation{}
	err := c.ShouldBindBodyWith(&creation, binding.JSON)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err = h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	typeDef, err := worktype.CreateWorkTypeFunc(&creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, typeDef)
}

func (h *workTypeHandler) handleDetail(c *gin.Context) {
	id := parseIdParam(c, "id")

	typeDef, err := worktype.DetailWorkTypeFunc(id)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, typeDef)
}

func (h *workTypeHandler) handleUpdate(c *gin.Context) {
	id := parseIdParam(c, "id")

	updating := worktype.WorkTypeUpdating{}
	err := c.ShouldBindBodyWith(&updating, binding.JSON)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err = h.validator.Struct(updating); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	typeDef, err := worktype.UpdateWorkTypeFunc(id, &updating, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, typeDef)
}

func (h *workTypeHandler) handleDelete(c *gin.Context) {
	id := parseIdParam(c, "id")

	if err := worktype.DeleteWorkTypeFunc(id, session.FindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}

func (h *workTypeHandler) handleCreateActivityType(c *gin.Context) {
	creation := worktype.ActivityTypeCreation{}
	err := c.ShouldBindBodyWith(&creation, binding.JSON)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err = h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	typeDef, err := worktype.CreateActivityTypeFunc(&creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, typeDef)
}

func (h *workTypeHandler) handleDetailActivityType(c *gin.Context) {
	id := parseIdParam(c, "id")

	typeDef, err := worktype.DetailActivityTypeFunc(id)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, typeDef)
}
