package middleware

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"user_service/internal/common"
	"user_service/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newErrorTestRouter(fail func(c *gin.Context)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(Recovery(discardLogger()))
	router.Use(ErrorHandler(discardLogger()))
	router.NoRoute(NotFoundHandler())
	router.NoMethod(MethodNotAllowedHandler())
	router.GET("/boom", fail)
	return router
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestErrorHandler_BusinessError(t *testing.T) {
	router := newErrorTestRouter(func(c *gin.Context) {
		c.Error(common.NewBusinessError("用户不存在"))
	})

	w := serve(router, http.MethodGet, "/boom")

	// Business failures keep HTTP 200; the envelope carries the code.
	assert.Equal(t, http.StatusOK, w.Code)
	res := decodeResult(t, w)
	assert.Equal(t, common.InternalError.Code, res.Code)
	assert.Equal(t, "用户不存在", res.Message)
}

func TestErrorHandler_BusinessErrorCarriedCode(t *testing.T) {
	router := newErrorTestRouter(func(c *gin.Context) {
		c.Error(common.NewBusinessErrorCode(common.DataNotFound.Code, "数据不存在"))
	})

	w := serve(router, http.MethodGet, "/boom")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, common.DataNotFound.Code, decodeResult(t, w).Code)
}

func TestErrorHandler_DuplicateKey(t *testing.T) {
	router := newErrorTestRouter(func(c *gin.Context) {
		c.Error(&pgconn.PgError{Code: pgUniqueViolation})
	})

	w := serve(router, http.MethodGet, "/boom")

	assert.Equal(t, http.StatusOK, w.Code)
	res := decodeResult(t, w)
	assert.Equal(t, common.DuplicateKey.Code, res.Code)
	assert.Equal(t, common.DuplicateKey.Message, res.Message)
}

func TestErrorHandler_DatabaseError(t *testing.T) {
	router := newErrorTestRouter(func(c *gin.Context) {
		c.Error(&pgconn.PgError{Code: "42832", Message: "wrong schema"})
	})

	w := serve(router, http.MethodGet, "/boom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	res := decodeResult(t, w)
	assert.Equal(t, common.DatabaseError.Code, res.Code)
	// Fixed message, no SQL detail leaks.
	assert.Equal(t, common.DatabaseError.Message, res.Message)
}

func TestErrorHandler_InvalidArgument(t *testing.T) {
	router := newErrorTestRouter(func(c *gin.Context) {
		c.Error(fmt.Errorf("%w: 无效的用户ID", common.ErrInvalidArgument))
	})

	w := serve(router, http.MethodGet, "/boom")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	res := decodeResult(t, w)
	assert.Equal(t, common.BadRequest.Code, res.Code)
	assert.Contains(t, res.Message, "无效的用户ID")
}

func TestErrorHandler_UnclassifiedErrorIsSanitized(t *testing.T) {
	router := newErrorTestRouter(func(c *gin.Context) {
		c.Error(assert.AnError)
	})

	w := serve(router, http.MethodGet, "/boom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	res := decodeResult(t, w)
	assert.Equal(t, common.InternalError.Code, res.Code)
	assert.Equal(t, common.InternalError.Message, res.Message)
}

func TestRecovery_PanicBecomesEnvelope(t *testing.T) {
	router := newErrorTestRouter(func(c *gin.Context) {
		panic("boom")
	})

	w := serve(router, http.MethodGet, "/boom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	res := decodeResult(t, w)
	assert.Equal(t, common.InternalError.Code, res.Code)
	assert.Contains(t, res.Message, "系统运行异常")
}

func TestRecovery_NilDereference(t *testing.T) {
	router := newErrorTestRouter(func(c *gin.Context) {
		var u *struct{ Name string }
		_ = u.Name
	})

	w := serve(router, http.MethodGet, "/boom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "系统内部错误：空指针异常", decodeResult(t, w).Message)
}

func TestNotFoundHandler(t *testing.T) {
	router := newErrorTestRouter(func(c *gin.Context) {})

	w := serve(router, http.MethodGet, "/nowhere")

	assert.Equal(t, http.StatusNotFound, w.Code)
	res := decodeResult(t, w)
	assert.Equal(t, common.NotFound.Code, res.Code)
	assert.Equal(t, common.NotFound.Message, res.Message)
}

func TestMethodNotAllowedHandler(t *testing.T) {
	router := newErrorTestRouter(func(c *gin.Context) {})

	w := serve(router, http.MethodDelete, "/boom")

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	res := decodeResult(t, w)
	assert.Equal(t, common.MethodNotAllowed.Code, res.Code)
	assert.Equal(t, "不支持DELETE请求方法", res.Message)
}
