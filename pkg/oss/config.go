package oss

type Config struct {
	AccessKeyID     string `yaml:"access-key-id" json:"accessKeyId"`
	AccessKeySecret string `yaml:"access-key-secret" json:"accessKeySecret"`
	Region          string `yaml:"region" json:"region"`
	Bucket          string `yaml:"bucket" json:"bucket"`
	// Domain 自定义CDN域名，留空使用bucket默认域名
	Domain string `yaml:"domain" json:"domain"`
	// Prefix 对象key前缀，产物统一放在该目录下
	Prefix string `yaml:"prefix" json:"prefix"`
}
