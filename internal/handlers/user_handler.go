package handlers

import (
	"strconv"

	"fdadmin/internal/services"
	"fdadmin/pkg/pagination"
	"fdadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type CreateUserRequest struct {
	Username string  `json:"username" binding:"required,min=3,max=50"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6,max=50"`
	Name     string  `json:"name" binding:"required,max=100"`
	Role     string  `json:"role" binding:"required"`
	Phone    *string `json:"phone"`
}

type UpdateUserRequest struct {
	Name   string  `json:"name" binding:"required,max=100"`
	Email  string  `json:"email" binding:"required,email"`
	Phone  *string `json:"phone"`
	Role   string  `json:"role" binding:"required"`
	Status string  `json:"status" binding:"required"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6,max=50"`
}

type AssignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// Create 创建员工账号
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	user, err := h.userService.Create(req.Username, req.Email, req.Password, req.Name, req.Role, req.Phone)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "创建成功", user)
}

// List 员工列表（分页+过滤）
func (h *UserHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)

	role := c.Query("role")
	status := c.Query("status")
	keyword := c.Query("search")

	users, total, err := h.userService.GetWithFiltersAndPage(role, status, keyword, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询员工列表失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, users, pageInfo)
}

// GetByID 员工详情
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的员工ID")
		return
	}

	user, err := h.userService.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "员工不存在")
		return
	}

	response.Success(c, user)
}

// Update 更新员工信息
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的员工ID")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	user, err := h.userService.Update(uint(id), req.Name, req.Email, req.Phone, req.Role, req.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "更新成功", user)
}

// Delete 删除员工
// 不允许删除当前登录账号
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的员工ID")
		return
	}

	if c.GetUint("user_id") == uint(id) {
		response.BadRequest(c, "不能删除当前登录账号")
		return
	}

	if err := h.userService.Delete(uint(id)); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// Activate 激活员工
func (h *UserHandler) Activate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的员工ID")
		return
	}

	user, err := h.userService.Activate(uint(id))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "已激活", user)
}

// Deactivate 停用员工
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的员工ID")
		return
	}

	if c.GetUint("user_id") == uint(id) {
		response.BadRequest(c, "不能停用当前登录账号")
		return
	}

	user, err := h.userService.Deactivate(uint(id))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "已停用", user)
}

// Lock 锁定员工
func (h *UserHandler) Lock(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的员工ID")
		return
	}

	if c.GetUint("user_id") == uint(id) {
		response.BadRequest(c, "不能锁定当前登录账号")
		return
	}

	user, err := h.userService.Lock(uint(id))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "已锁定", user)
}

// ResetPassword 重置密码
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的员工ID")
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	if _, err := h.userService.ResetPassword(uint(id), req.Password); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "密码重置成功", nil)
}

// AssignRole 调整员工角色
func (h *UserHandler) AssignRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的员工ID")
		return
	}

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	user, err := h.userService.AssignRole(uint(id), req.Role)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "角色调整成功", user)
}

// GetStats 员工统计
func (h *UserHandler) GetStats(c *gin.Context) {
	stats, err := h.userService.GetStats()
	if err != nil {
		response.ServerError(c, "查询员工统计失败")
		return
	}

	response.Success(c, stats)
}
