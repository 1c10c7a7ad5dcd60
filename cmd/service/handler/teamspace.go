package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/repo3d/repo3d/app/logic/v1"
	"github.com/repo3d/repo3d/app/response"
	"github.com/repo3d/repo3d/pkg/types"
	"github.com/repo3d/repo3d/pkg/utils"
)

type CreateTeamspaceRequest struct {
	Name string `json:"name" binding:"required,max=64"`
}

func (s *HttpSrv) CreateTeamspace(c *gin.Context) {
	var (
		err error
		req CreateTeamspaceRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	teamspace, err := v1.NewTeamspaceLogic(c, s.Core).CreateTeamspace(req.Name)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, teamspace)
}

type ListTeamspaceMembersResponse struct {
	List []v1.MemberView `json:"list"`
}

func (s *HttpSrv) ListTeamspaceMembers(c *gin.Context) {
	teamspace, _ := v1.InjectTeamspace(c)

	list, err := v1.NewTeamspaceLogic(c, s.Core).Members(teamspace)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, ListTeamspaceMembersResponse{
		List: list,
	})
}

type RemoveTeamspaceMemberRequest struct {
	User string `json:"user" form:"user" binding:"required"`
}

func (s *HttpSrv) RemoveTeamspaceMember(c *gin.Context) {
	var (
		err error
		req RemoveTeamspaceMemberRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	teamspace, _ := v1.InjectTeamspace(c)
	if err = v1.NewTeamspaceLogic(c, s.Core).RemoveMember(teamspace, req.User); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}

type SetMemberJobRequest struct {
	User string `json:"user" binding:"required"`
	Job  string `json:"job" binding:"required"`
}

func (s *HttpSrv) SetMemberJob(c *gin.Context) {
	var (
		err error
		req SetMemberJobRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	teamspace, _ := v1.InjectTeamspace(c)
	if err = v1.NewTeamspaceLogic(c, s.Core).SetMemberJob(teamspace, req.User, req.Job); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}

type ListJobsResponse struct {
	List []types.Job `json:"list"`
}

func (s *HttpSrv) ListJobs(c *gin.Context) {
	teamspace, _ := v1.InjectTeamspace(c)

	list, err := v1.NewTeamspaceLogic(c, s.Core).ListJobs(teamspace)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, ListJobsResponse{
		List: list,
	})
}

type CreateJobRequest struct {
	Name  string `json:"name" binding:"required,max=64"`
	Color string `json:"color"`
}

func (s *HttpSrv) CreateJob(c *gin.Context) {
	var (
		err error
		req CreateJobRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	teamspace, _ := v1.InjectTeamspace(c)
	job, err := v1.NewTeamspaceLogic(c, s.Core).CreateJob(teamspace, req.Name, req.Color)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, job)
}
