package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/repo3d/repo3d/app/logic/v1"
	"github.com/repo3d/repo3d/app/response"
	"github.com/repo3d/repo3d/pkg/utils"
)

type RegisterRequest struct {
	UserName string `json:"user_name" form:"user_name" binding:"required,max=32"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8,max=64"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
}

func (s *HttpSrv) Register(c *gin.Context) {
	var (
		err error
		req RegisterRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	appid, _ := v1.InjectAppid(c)
	user, err := v1.NewUserLogic(c, s.Core).Register(appid, req.UserName, req.Email, req.Password)
	if err != nil {
		response.APIError(c, err)
		return
	}

	s.Core.Metrics().InvitationOpInc("unpack")

	response.APISuccess(c, RegisterResponse{
		UserID: user.ID,
	})
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

func (s *HttpSrv) Login(c *gin.Context) {
	var (
		err error
		req LoginRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	appid, _ := v1.InjectAppid(c)
	result, err := v1.NewUserLogic(c, s.Core).Login(appid, req.Email, req.Password)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, result)
}

type GetUserResponse struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Appid    string `json:"appid"`
}

func (s *HttpSrv) GetUser(c *gin.Context) {
	user, err := v1.NewAuthedUserLogic(c, s.Core).GetUserProfile()
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, GetUserResponse{
		UserID:   user.ID,
		UserName: user.Name,
		Email:    user.Email,
		Avatar:   user.Avatar,
		Appid:    user.Appid,
	})
}

type UpdateUserProfileRequest struct {
	UserName string `json:"user_name" form:"user_name" binding:"required,max=32"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Avatar   string `json:"avatar" form:"avatar"`
}

func (s *HttpSrv) UpdateUserProfile(c *gin.Context) {
	var (
		err error
		req UpdateUserProfileRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	err = v1.NewAuthedUserLogic(c, s.Core).UpdateUserProfile(req.UserName, req.Email, req.Avatar)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}
