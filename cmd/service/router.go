package service

import (
	"github.com/gin-gonic/gin"

	"github.com/repo3d/repo3d/app/core"
	v1 "github.com/repo3d/repo3d/app/logic/v1"
	"github.com/repo3d/repo3d/app/response"
	"github.com/repo3d/repo3d/cmd/service/handler"
	"github.com/repo3d/repo3d/cmd/service/middleware"
	"github.com/repo3d/repo3d/pkg/metrics"
)

func serve(core *core.Core) {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: core.HttpEngine(),
	}
	setupHttpRouter(httpSrv)

	core.HttpEngine().Run(core.Cfg().Addr)
}

func GetIPLimitBuilder(appCore *core.Core) middleware.LimiterFunc {
	return func(key string, opts ...core.LimitOption) gin.HandlerFunc {
		return middleware.UseLimit(appCore, func(c *gin.Context) string {
			return key + ":" + c.ClientIP()
		}, opts...)
	}
}

func GetUserLimitBuilder(appCore *core.Core) middleware.LimiterFunc {
	return func(key string, opts ...core.LimitOption) gin.HandlerFunc {
		return middleware.UseLimit(appCore, func(c *gin.Context) string {
			token, _ := v1.InjectTokenClaim(c)
			return key + ":" + token.User
		}, opts...)
	}
}

func setupHttpRouter(s *handler.HttpSrv) {
	ipLimit := GetIPLimitBuilder(s.Core)
	userLimit := GetUserLimitBuilder(s.Core)

	s.Engine.GET("/metrics", metrics.DefaultExportHandler())

	s.Engine.Use(middleware.I18n(), response.NewResponse())
	s.Engine.Use(middleware.Cors)
	s.Engine.Use(middleware.AcceptLanguage())
	s.Engine.Use(middleware.SetAppid(s.Core))
	s.Engine.Use(middleware.Observe(s.Core))

	apiV1 := s.Engine.Group("/api/v1")
	{
		user := apiV1.Group("/user")
		{
			user.POST("/register", ipLimit("register", core.WithLimit(10)), s.Register)
			user.POST("/login", ipLimit("login", core.WithLimit(20)), s.Login)
		}

		apiV1.GET("/invitation/verify", ipLimit("invitation_verify"), s.VerifyInvitation)

		authed := apiV1.Group("")
		authed.Use(middleware.Authorization(s.Core))

		authedUser := authed.Group("/user")
		{
			authedUser.GET("/info", s.GetUser)
			authedUser.PUT("/profile", userLimit("profile"), s.UpdateUserProfile)
		}

		authed.POST("/teamspace", userLimit("create_teamspace", core.WithLimit(10)), s.CreateTeamspace)

		teamspace := authed.Group("/teamspace/:teamspace")
		teamspace.Use(middleware.SetTeamspace())
		{
			teamspace.GET("/members", s.ListTeamspaceMembers)
			teamspace.DELETE("/member", s.RemoveTeamspaceMember)
			teamspace.PUT("/member/job", s.SetMemberJob)

			teamspace.GET("/jobs", s.ListJobs)
			teamspace.POST("/job", s.CreateJob)

			teamspace.POST("/invitation", userLimit("invite"), s.InviteMember)
			teamspace.GET("/invitations", s.ListInvitations)
			teamspace.PUT("/invitation/permissions", s.SetInviteePermissions)
		}

		tree := authed.Group("/tree")
		{
			tree.POST("/process", userLimit("tree_process", core.WithLimit(30)), s.ProcessTree)
		}
	}
}
