package bizerror

import (
	"corework/common"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

func ErrorHandling() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handle(c)
		c.Next()
	}
}

func handle(c *gin.Context) {
	if ret := recover(); ret != nil {
		err, ok := ret.(error)
		if !ok {
			err = fmt.Errorf("%s", ret)
		}
		HandleError(c, err)
	} else {
		if err := c.Errors.Last(); err != nil {
			HandleError(c, err)
		}
	}
}

func HandleError(c *gin.Context, err error) {
	logrus.Error(err)

	genericErr := err
	var ginErr *gin.Error
	if errors.As(err, &ginErr) {
		genericErr = ginErr.Err
	}

	var bizErr BizError
	if errors.As(genericErr, &bizErr) {
		respond := bizErr.Respond()
		c.JSON(respond.Status, &common.ErrorBody{Code: respond.Code, Message: respond.Message, Data: respond.Data})
		c.Abort()
		return
	}

	// bad request: io.EOF (no body)
	if errors.Is(genericErr, io.EOF) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.body_not_found", Message: "body not found"})
		c.Abort()
		return
	}
	// bad request: json syntax error
	var syntaxErr *json.SyntaxError
	if errors.As(genericErr, &syntaxErr) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.invalid_body_format", Message: "invalid body format", Data: syntaxErr.Error()})
		c.Abort()
		return
	}
	// binding validation failed
	if validationErr, ok := genericErr.(validator.ValidationErrors); ok {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.validation_failed", Message: "validation failed", Data: validationErr.Error()})
		c.Abort()
		return
	}

	if errors.Is(genericErr, ErrUnauthenticated) {
		c.JSON(http.StatusUnauthorized, &common.ErrorBody{Code: "common.unauthenticated", Message: "unauthenticated"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrForbidden) {
		c.JSON(http.StatusForbidden, &common.ErrorBody{Code: "security.forbidden", Message: "access forbidden"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrUnknownState) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "workflow.unknown_state", Message: "unknown state"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrStateCategoryInvalid) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "workflow.state_category_invalid", Message: "state category invalid"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrChildTypeNotPermitted) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "worktype.child_type_not_permitted", Message: "child type not permitted"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrConcurrentModification) {
		c.JSON(http.StatusConflict, &common.ErrorBody{Code: "common.concurrent_modification", Message: "concurrent modification"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrAllocationFailure) {
		c.JSON(http.StatusInternalServerError, &common.ErrorBody{Code: "sequence.allocation_failure", Message: "sequence allocation failure"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrTypeIsReferenced) {
		c.JSON(http.StatusConflict, &common.ErrorBody{Code: "worktype.referenced", Message: "type is referenced"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrReferenceNotFound) || errors.Is(genericErr, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, &common.ErrorBody{Code: "common.record_not_found", Message: "record not found"})
		c.Abort()
		return
	}

	c.JSON(http.StatusInternalServerError, &common.ErrorBody{Code: "common.internal_server_error", Message: err.Error()})
	c.Abort()
}
