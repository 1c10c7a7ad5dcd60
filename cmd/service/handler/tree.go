package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/repo3d/repo3d/app/logic/v1"
	"github.com/repo3d/repo3d/app/response"
	"github.com/repo3d/repo3d/pkg/errors"
	"github.com/repo3d/repo3d/pkg/i18n"
	"github.com/repo3d/repo3d/pkg/modeltree"
)

// ProcessTree flattens an uploaded model tree. The payload can be large,
// binding is plain JSON without the form layer.
func (s *HttpSrv) ProcessTree(c *gin.Context) {
	var input modeltree.ProcessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.APIError(c, errors.New("ProcessTree.ShouldBindJSON", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest))
		return
	}

	if input.MainTree == nil {
		response.APIError(c, errors.New("ProcessTree.MainTree.nil", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest))
		return
	}

	result, err := v1.NewTreeLogic(c, s.Core).Process(input)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, result)
}
