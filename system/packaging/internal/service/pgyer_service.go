package service

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/valyala/fasthttp"

	errorc "brandkit/pkg/core/err"
	"brandkit/pkg/core/logger"
)

const (
	pgyerTokenURL     = "https://api.pgyer.com/apiv2/app/getCOSToken"
	pgyerBuildInfoURL = "https://api.pgyer.com/apiv2/app/buildInfo"

	// pgyerProcessingCode 蒲公英后台还在解析时的响应码，轮询重试
	pgyerProcessingCode = 1247
	pgyerPollInterval   = time.Second
	pgyerPollLimit      = 300
)

// PgyerResult 蒲公英上传结果
type PgyerResult struct {
	BuildKey         string `json:"buildKey"`
	BuildName        string `json:"buildName"`
	BuildVersion     string `json:"buildVersion"`
	BuildVersionNo   string `json:"buildVersionNo"`
	BuildShortcutUrl string `json:"buildShortcutUrl"`
	BuildQRCodeURL   string `json:"buildQRCodeURL"`
	BuildFileSize    int64  `json:"buildFileSize"`
	DownloadUrl      string `json:"downloadUrl"`
}

// PgyerService 蒲公英分发上传。
// 三步走：取COS上传凭证、传包到COS、轮询解析结果。
type PgyerService struct {
	apiKey string
	log    *logger.Log
	err    *errorc.ErrorBuilder
}

// NewPgyerService 创建蒲公英上传服务
func NewPgyerService(apiKey string, log *logger.Log) *PgyerService {
	return &PgyerService{
		apiKey: apiKey,
		log:    log.WithEntryName("PgyerService"),
		err:    errorc.NewErrorBuilder("PgyerService"),
	}
}

// postForm 发application/x-www-form-urlencoded请求并解析JSON响应
func (s *PgyerService) postForm(uri string, form url.Values) (*gjson.Result, error) {
	request := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(request)
	response := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(response)

	request.Header.SetMethod("POST")
	request.SetRequestURI(uri)
	request.Header.SetContentType("application/x-www-form-urlencoded")
	request.SetBodyString(form.Encode())

	if err := fasthttp.Do(request, response); err != nil {
		return nil, s.err.New("请求蒲公英接口失败", err).Third()
	}
	if response.StatusCode() != 200 {
		return nil, s.err.New(fmt.Sprintf("蒲公英接口返回状态码 %d", response.StatusCode()), nil).Third()
	}
	result := gjson.ParseBytes(append([]byte(nil), response.Body()...))
	return &result, nil
}

// getToken 第一步：取COS上传凭证
func (s *PgyerService) getToken(filename, description string) (*gjson.Result, error) {
	buildType := strings.TrimPrefix(filepath.Ext(filename), ".")
	form := url.Values{}
	form.Set("_api_key", s.apiKey)
	form.Set("buildType", buildType)
	form.Set("buildInstallType", "1")
	form.Set("buildPassword", "")
	form.Set("buildUpdateDescription", description)

	result, err := s.postForm(pgyerTokenURL, form)
	if err != nil {
		return nil, err
	}
	if code := result.Get("code").Int(); code != 0 {
		return nil, s.err.New(fmt.Sprintf("获取蒲公英上传凭证失败 %d: %s", code, result.Get("message").String()), nil).Third()
	}
	return result, nil
}

// uploadToCOS 第二步：按凭证把包传到COS，成功返回204
func (s *PgyerService) uploadToCOS(token *gjson.Result, filename string, data []byte) error {
	endpoint := token.Get("data.endpoint").String()
	params := token.Get("data.params")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	_ = writer.WriteField("key", params.Get("key").String())
	_ = writer.WriteField("signature", params.Get("signature").String())
	_ = writer.WriteField("x-cos-security-token", params.Get("x-cos-security-token").String())
	_ = writer.WriteField("x-cos-meta-file-name", filepath.Base(filename))

	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return s.err.New("构造上传表单失败", err)
	}
	if _, err := part.Write(data); err != nil {
		return s.err.New("构造上传表单失败", err)
	}
	if err := writer.Close(); err != nil {
		return s.err.New("构造上传表单失败", err)
	}

	request := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(request)
	response := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(response)

	request.Header.SetMethod("POST")
	request.SetRequestURI(endpoint)
	request.Header.SetContentType(writer.FormDataContentType())
	request.SetBody(body.Bytes())

	if err := fasthttp.Do(request, response); err != nil {
		return s.err.New("上传到COS失败", err).Third()
	}
	if response.StatusCode() != 204 {
		return s.err.New(fmt.Sprintf("上传到COS失败，状态码 %d", response.StatusCode()), nil).Third()
	}
	return nil
}

// pollBuildInfo 第三步：轮询解析结果，1247表示还在处理
func (s *PgyerService) pollBuildInfo(buildKey string) (*PgyerResult, error) {
	form := url.Values{}
	form.Set("_api_key", s.apiKey)
	form.Set("buildKey", buildKey)

	for i := 0; i < pgyerPollLimit; i++ {
		result, err := s.postForm(pgyerBuildInfoURL, form)
		if err != nil {
			return nil, err
		}

		code := result.Get("code").Int()
		if code == pgyerProcessingCode {
			time.Sleep(pgyerPollInterval)
			continue
		}
		if code != 0 {
			return nil, s.err.New(fmt.Sprintf("查询蒲公英解析结果失败 %d: %s", code, result.Get("message").String()), nil).Third()
		}

		data := result.Get("data")
		shortcut := data.Get("buildShortcutUrl").String()
		return &PgyerResult{
			BuildKey:         data.Get("buildKey").String(),
			BuildName:        data.Get("buildName").String(),
			BuildVersion:     data.Get("buildVersion").String(),
			BuildVersionNo:   data.Get("buildVersionNo").String(),
			BuildShortcutUrl: shortcut,
			BuildQRCodeURL:   data.Get("buildQRCodeURL").String(),
			BuildFileSize:    data.Get("buildFileSize").Int(),
			DownloadUrl:      "https://www.pgyer.com/" + shortcut,
		}, nil
	}
	return nil, s.err.New("等待蒲公英解析超时", nil).Third()
}

// Upload 上传安装包到蒲公英分发
func (s *PgyerService) Upload(filename, description string, data []byte) (*PgyerResult, error) {
	if s.apiKey == "" {
		return nil, s.err.New("未配置蒲公英 api key", nil).Unavailable()
	}

	s.log.Info("获取蒲公英上传凭证...")
	token, err := s.getToken(filename, description)
	if err != nil {
		return nil, err
	}

	s.log.Info("上传安装包到COS...")
	if err := s.uploadToCOS(token, filename, data); err != nil {
		return nil, err
	}

	s.log.Info("等待蒲公英解析...")
	result, err := s.pollBuildInfo(token.Get("data.key").String())
	if err != nil {
		return nil, err
	}
	s.log.Infof("蒲公英上传成功: %s (%s)", result.BuildName, result.BuildVersion)
	return result, nil
}
