package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/repo3d/repo3d/app/core"
)

type HttpSrv struct {
	Core   *core.Core
	Engine *gin.Engine
}
