package api

import (
	"errors"

	"cashlog/config"
	"cashlog/database"
	"cashlog/middleware"
	"cashlog/models"
	"cashlog/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	cfg   *config.Config
	users *repository.UserRepository
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		cfg:   cfg,
		users: repository.NewUserRepository(database.DB),
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=150" example:"ada@example.com"`
	Name     string `json:"name" binding:"required,max=100" example:"Ada"`
	Password string `json:"password" binding:"required,min=8,max=72" example:"password123"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"ada@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建账号并返回 token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 200 {object} Response{data=LoginResponse} "注册成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	exists, err := h.users.EmailExists(c.Request.Context(), req.Email)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to check email"))
		return
	}
	if exists {
		BadRequest(c, "email already registered")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "failed to hash password")
		return
	}

	user := models.User{
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hashedPassword),
		IsActive: true,
	}
	if err := h.users.Create(c.Request.Context(), &user); err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create user"))
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "failed to generate token")
		return
	}
	SuccessWithMessage(c, "registered", LoginResponse{Token: token, User: user})
}

// Login 用户登录
// @Summary 用户登录
// @Description 邮箱和密码登录，获取 JWT token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "邮箱或密码错误"
// @Failure 403 {object} Response "账号已停用"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			Unauthorized(c, "invalid email or password")
			return
		}
		InternalError(c, SafeErrorMessage(err, "login failed"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "invalid email or password")
		return
	}

	if !user.IsActive {
		Forbidden(c, "account disabled")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "failed to generate token")
		return
	}
	SuccessWithMessage(c, "logged in", LoginResponse{Token: token, User: *user})
}

// GetProfile 获取当前用户信息
// @Summary 获取用户信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "用户信息"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		respondRepoError(c, err, "failed to load profile")
		return
	}
	Success(c, user)
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "新旧密码"
// @Success 200 {object} Response "修改成功"
// @Failure 400 {object} Response "旧密码错误"
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.Get(ctx, middleware.GetCurrentUserID(c))
	if err != nil {
		respondRepoError(c, err, "failed to load user")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		BadRequest(c, "old password is incorrect")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "failed to hash password")
		return
	}
	if err := h.users.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
		respondRepoError(c, err, "failed to update password")
		return
	}
	SuccessWithMessage(c, "password updated", nil)
}
