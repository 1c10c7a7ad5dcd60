package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/repo3d/repo3d/app/logic/v1"
	"github.com/repo3d/repo3d/app/response"
	"github.com/repo3d/repo3d/pkg/types"
	"github.com/repo3d/repo3d/pkg/utils"
)

type InviteMemberRequest struct {
	Email       string                     `json:"email" binding:"required,email"`
	Job         string                     `json:"job" binding:"required"`
	Permissions types.TeamspacePermissions `json:"permissions"`
}

type InviteMemberResponse struct {
	Invitation *v1.InvitationView `json:"invitation"`
	LinkToken  string             `json:"link_token,omitempty"`
}

func (s *HttpSrv) InviteMember(c *gin.Context) {
	var (
		err error
		req InviteMemberRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	teamspace, _ := v1.InjectTeamspace(c)
	view, err := v1.NewTeamspaceLogic(c, s.Core).InviteMember(teamspace, req.Email, req.Job, req.Permissions)
	if err != nil {
		response.APIError(c, err)
		return
	}

	linkToken, err := v1.NewInvitationLogic(c, s.Core).SignInvitationLink(view.Email, teamspace)
	if err != nil {
		response.APIError(c, err)
		return
	}

	s.Core.Metrics().InvitationOpInc("create")

	response.APISuccess(c, InviteMemberResponse{
		Invitation: view,
		LinkToken:  linkToken,
	})
}

type VerifyInvitationRequest struct {
	Token string `json:"token" form:"token" binding:"required"`
}

// VerifyInvitation resolves a signed invitation link, the landing page for
// an emailed invite.
func (s *HttpSrv) VerifyInvitation(c *gin.Context) {
	var (
		err error
		req VerifyInvitationRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	view, err := v1.NewInvitationLogic(c, s.Core).VerifyInvitationLink(req.Token)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, view)
}

type ListInvitationsResponse struct {
	List []v1.InvitationView `json:"list"`
}

func (s *HttpSrv) ListInvitations(c *gin.Context) {
	teamspace, _ := v1.InjectTeamspace(c)

	list, err := v1.NewInvitationLogic(c, s.Core).GetInvitationsByTeamspace(teamspace)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, ListInvitationsResponse{
		List: list,
	})
}

type SetInviteePermissionsRequest struct {
	Email       string                     `json:"email" binding:"required,email"`
	Permissions types.TeamspacePermissions `json:"permissions"`
}

func (s *HttpSrv) SetInviteePermissions(c *gin.Context) {
	var (
		err error
		req SetInviteePermissionsRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	teamspace, _ := v1.InjectTeamspace(c)
	view, err := v1.NewTeamspaceLogic(c, s.Core).SetInviteePermissions(teamspace, req.Email, req.Permissions)
	if err != nil {
		response.APIError(c, err)
		return
	}

	s.Core.Metrics().InvitationOpInc("set_permissions")

	response.APISuccess(c, view)
}
