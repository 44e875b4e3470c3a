package utils

import (
	"strconv"
	"strings"
	"unicode"

	json "github.com/json-iterator/go"
)

// ParseInt64 将字符串转换为int64类型，如果转换失败则返回默认值
func ParseInt64(s string, defaultVal int64) int64 {
	if s == "" {
		return defaultVal
	}

	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return defaultVal
	}

	return val
}

// ParseJSON 将 JSON 字符串解析为对象
func ParseJSON(jsonStr string, v interface{}) error {
	return json.Unmarshal([]byte(jsonStr), v)
}

// ToJSON 将对象序列化为 JSON 字符串
func ToJSON(v interface{}) (string, error) {
	bytes, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CamelCase 将下划线/连字符分隔的标识转为大驼峰，applink后缀用
func CamelCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	var builder strings.Builder
	for _, part := range parts {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		builder.WriteString(string(runes))
	}
	return builder.String()
}
