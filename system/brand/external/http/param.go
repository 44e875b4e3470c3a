package http

import "net/url"

// decodeParam 路径参数解码，文件名里可能带百分号编码
func decodeParam(v string) (string, error) {
	decoded, err := url.PathUnescape(v)
	if err != nil {
		return "", err
	}
	return decoded, nil
}
