package servehttp

import (
	"corework/bizerror"
	"corework/common"
	"corework/domain/facility"
	"corework/session"
	"net/http"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterFacilityHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	handler := &facilityHandler{validator: validator.New()}

	d := r.Group("/v1/domains", middleWares...)
	d.POST("", handler.handleCreateDomain)

	l := r.Group("/v1/locations", middleWares...)
	l.POST("", handler.handleCreateLocation)
	l.GET("", handler.handleQueryLocations)

	s := r.Group("/v1/shop-groups", middleWares...)
	s.POST("", handler.handleCreateShopGroup)
	s.GET("", handler.handleQueryShopGroups)
}

type facilityHandler struct {
	validator *validator.Validate
}

type facilityQuery struct {
	DomainID types.ID `form:"domainId" binding:"required"`
}

func (h *facilityHandler) handleCreateDomain(c *gin.Context) {
	creation := facility.DomainCreation{}
	err := c.ShouldBindBodyWith(&creation, binding.JSON)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err = h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := facility.CreateDomainFunc(&creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func (h *facilityHandler) handleCreateLocation(c *gin.Context) {
	creation := facility.LocationCreation{}
	err := c.ShouldBindBodyWith(&creation, binding.JSON)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err = h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := facility.CreateLocationFunc(&creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func (h *facilityHandler) handleQueryLocations(c *gin.Context) {
	query := facilityQuery{}
	if err := c.ShouldBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	records, err := facility.QueryLocations(query.DomainID, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: records, Total: uint64(len(records))})
}

func (h *facilityHandler) handleCreateShopGroup(c *gin.Context) {
	creation := facility.ShopGroupCreation{}
	err := c.ShouldBindBodyWith(&creation, binding.JSON)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err = h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := facility.CreateShopGroupFunc(&creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func (h *facilityHandler) handleQueryShopGroups(c *gin.Context) {
	query := facilityQuery{}
	if err := c.ShouldBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	records, err := facility.QueryShopGroups(query.DomainID, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: records, Total: uint64(len(records))})
}
