package service

import (
	"fmt"
	"strings"

	errorc "brandkit/pkg/core/err"
	"brandkit/pkg/core/logger"
	"brandkit/pkg/core/util"
	brandclient "brandkit/system/brand/api/client"
)

// PushResult 测试推送结果
type PushResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PushService 通过uniCloud推送网关发测试推送，按品牌的extAppId路由
type PushService struct {
	gateway string
	brand   *brandclient.BrandClient
	log     *logger.Log
	err     *errorc.ErrorBuilder
}

// NewPushService 创建测试推送服务
func NewPushService(gateway string, brand *brandclient.BrandClient, log *logger.Log) *PushService {
	return &PushService{
		gateway: gateway,
		brand:   brand,
		log:     log.WithEntryName("PushService"),
		err:     errorc.NewErrorBuilder("PushService"),
	}
}

// TestPush 给品牌发一条测试推送
func (s *PushService) TestPush(alias, title, content, cid, page string) (*PushResult, error) {
	if s.gateway == "" {
		return nil, s.err.New("未配置推送网关地址", nil).Unavailable()
	}

	info, err := s.brand.Info(alias)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(info.ExtAppId) == "" {
		return nil, s.err.New(fmt.Sprintf("品牌 %q 缺少 extAppId，无法发送推送", alias), nil).ValidWithCtx()
	}

	payload := map[string]string{
		"appId":   info.ExtAppId,
		"title":   title,
		"content": content,
		"cid":     cid,
		"page":    page,
	}

	s.log.WithBrand(alias).Info("发送测试推送")
	result, err := util.HttpPost(s.gateway, payload)
	if err != nil {
		return nil, s.err.New("请求推送网关失败", err).Third()
	}

	if !result.Get("success").Bool() {
		msg := result.Get("message").String()
		if msg == "" {
			msg = result.Get("errMsg").String()
		}
		return nil, s.err.New(fmt.Sprintf("推送网关返回失败: %s", msg), nil).Third()
	}

	return &PushResult{Success: true, Message: "测试推送已发送"}, nil
}
