package base

import (
	"brandkit/pkg/core/logger"
	"brandkit/pkg/core/start"
	"brandkit/pkg/oss"
)

var (
	Configures *start.Configures
	Logger     *logger.Log
	ENV        string
	OSS        *oss.AliyunService
)
