package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"user_service/internal/common"
	"user_service/internal/model"
	"user_service/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles user CRUD requests
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// userRequest is the create/update body. Required-field checks are business
// rules here, not binding validation, so the envelope carries the specific
// message with HTTP 200.
type userRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Age      *int   `json:"age"`
	Status   *int   `json:"status"`
}

func (r *userRequest) toUser() *model.User {
	user := &model.User{
		Username: r.Username,
		Email:    r.Email,
		Phone:    r.Phone,
		Age:      r.Age,
		Status:   model.StatusActive,
	}
	if r.Status != nil {
		user.Status = *r.Status
	}
	return user
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	if strings.TrimSpace(req.Username) == "" {
		c.Error(common.NewBusinessError("用户名不能为空"))
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		c.Error(common.NewBusinessError("邮箱不能为空"))
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req.toUser())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, common.OKMsg("用户创建成功", user))
}

func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.service.GetAllUsers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, common.OK(users))
}

func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.Error(err)
		return
	}

	user, err := h.service.GetUserByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	if user == nil {
		c.Error(common.NewBusinessError("用户不存在"))
		return
	}

	c.JSON(http.StatusOK, common.OK(user))
}

func (h *UserHandler) GetUserByUsername(c *gin.Context) {
	username := c.Param("username")

	user, err := h.service.GetUserByUsername(c.Request.Context(), username)
	if err != nil {
		c.Error(err)
		return
	}
	if user == nil {
		c.Error(common.NewBusinessError("用户不存在"))
		return
	}

	c.JSON(http.StatusOK, common.OK(user))
}

func (h *UserHandler) GetUsersByPage(c *gin.Context) {
	pageNum, err := queryInt(c, "pageNum", 1)
	if err != nil {
		c.Error(err)
		return
	}
	pageSize, err := queryInt(c, "pageSize", 10)
	if err != nil {
		c.Error(err)
		return
	}

	page, err := h.service.GetUsersByPage(c.Request.Context(), pageNum, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, common.OK(page))
}

func (h *UserHandler) SearchUsers(c *gin.Context) {
	q := model.UserQuery{
		Username: c.Query("username"),
		Email:    c.Query("email"),
	}
	if raw := c.Query("status"); raw != "" {
		status, err := strconv.Atoi(raw)
		if err != nil {
			c.Error(fmt.Errorf("%w: status必须为整数", common.ErrInvalidArgument))
			return
		}
		q.Status = &status
	}

	users, err := h.service.GetUsersByCondition(c.Request.Context(), q)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, common.OK(users))
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	user := req.toUser()
	user.ID = id

	ok, err := h.service.UpdateUser(c.Request.Context(), user)
	if err != nil {
		c.Error(err)
		return
	}
	if !ok {
		c.Error(common.NewBusinessError("用户更新失败或用户不存在"))
		return
	}

	updated, err := h.service.GetUserByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, common.OKMsg("用户更新成功", updated))
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.Error(err)
		return
	}

	ok, err := h.service.DeleteUserByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	if !ok {
		c.Error(common.NewBusinessError("用户删除失败或用户不存在"))
		return
	}

	c.JSON(http.StatusOK, common.OKMsg("用户删除成功", nil))
}

// RegisterUserRoutes registers user CRUD routes
func (h *UserHandler) RegisterUserRoutes(r gin.IRouter) {
	users := r.Group("/api/users")
	{
		users.POST("", h.CreateUser)
		users.GET("", h.GetAllUsers)
		users.GET("/page", h.GetUsersByPage)
		users.GET("/search", h.SearchUsers)
		users.GET("/username/:username", h.GetUserByUsername)
		users.GET("/:id", h.GetUserByID)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: 无效的用户ID", common.ErrInvalidArgument)
	}
	return id, nil
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s必须为整数", common.ErrInvalidArgument, name)
	}
	return v, nil
}
