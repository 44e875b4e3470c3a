package dto

// PushTestRequest 测试推送请求
type PushTestRequest struct {
	Title   string `json:"title" validate:"required" comment:"推送标题"`
	Content string `json:"content" validate:"required" comment:"推送内容"`
	Cid     string `json:"cid" comment:"目标设备cid，空则广播"`
	Page    string `json:"page" comment:"点击跳转页面"`
}
