package types

import "fmt"

type TableName string

func (s TableName) Name() string {
	return fmt.Sprintf("%s%s", TABLE_PREFIX, s)
}

const TABLE_PREFIX = "repo3d_"

const (
	TABLE_USER             = TableName("user")
	TABLE_ACCESS_TOKEN     = TableName("access_token")
	TABLE_TEAMSPACE        = TableName("teamspace")
	TABLE_TEAMSPACE_MEMBER = TableName("teamspace_member")
	TABLE_JOB              = TableName("job")
	TABLE_PROJECT          = TableName("project")
	TABLE_MODEL_SETTING    = TableName("model_setting")
	TABLE_INVITATION       = TableName("invitation")
)
