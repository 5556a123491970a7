package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"

	"user_service/internal/common"
	"user_service/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error code for unique constraint violations.
const pgUniqueViolation = "23505"

// ErrorHandler is the boundary adapter between internal error kinds and the
// response envelope. It is the last line of defense: it never re-throws,
// always writes an envelope, and logs the original failure with full detail
// while returning a sanitized message for unclassified errors.
func ErrorHandler(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, res := mapError(err)
		log.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.Request.URL.Path,
			"code", res.Code, "err", err)
		c.JSON(status, res)
	}
}

func mapError(err error) (int, common.Result) {
	var be *common.BusinessError
	if errors.As(err, &be) {
		// Business failures are not transport failures: HTTP 200,
		// carried code in the envelope.
		return http.StatusOK, common.ErrCode(be.Code, be.Message)
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msg := common.ValidationFailed.Message
		if len(ve) > 0 {
			msg = ve[0].Error()
		}
		return http.StatusBadRequest, common.ErrCode(common.ValidationFailed.Code, msg)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return http.StatusBadRequest, common.ErrResult(common.BadRequest)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgUniqueViolation {
			return http.StatusOK, common.ErrResult(common.DuplicateKey)
		}
		return http.StatusInternalServerError, common.ErrResult(common.DatabaseError)
	}

	if errors.Is(err, common.ErrInvalidArgument) {
		return http.StatusBadRequest, common.ErrCode(common.BadRequest.Code, err.Error())
	}

	// Unclassified: sanitized message only, detail stays in the server log.
	return http.StatusInternalServerError, common.ErrResult(common.InternalError)
}

// Recovery converts panics into internal-error envelopes instead of letting
// gin's default plain-text handler answer.
func Recovery(log logging.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error(c.Request.Context(), "panic recovered",
			"method", c.Request.Method, "path", c.Request.URL.Path, "panic", recovered)

		msg := fmt.Sprintf("系统运行异常：%v", recovered)
		if re, ok := recovered.(runtime.Error); ok && strings.Contains(re.Error(), "nil pointer dereference") {
			msg = "系统内部错误：空指针异常"
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			common.ErrCode(common.InternalError.Code, msg))
	})
}

// NotFoundHandler answers unrouted paths with an envelope.
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.ErrResult(common.NotFound))
	}
}

// MethodNotAllowedHandler answers known paths hit with the wrong method.
func MethodNotAllowedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed,
			common.ErrCode(common.MethodNotAllowed.Code, "不支持"+c.Request.Method+"请求方法"))
	}
}
