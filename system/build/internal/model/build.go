package model

// EventType 构建流事件类型
type EventType string

const (
	// EventOutput 构建过程中的一段标准输出/错误输出
	EventOutput EventType = "output"
	// EventSuccess 终态：构建成功（进程零退出码）
	EventSuccess EventType = "success"
	// EventError 终态：构建失败（非零退出码或启动失败）
	EventError EventType = "error"
	// EventCancelled 终态：构建被取消
	EventCancelled EventType = "cancelled"
)

// BuildEvent 推送给客户端的单个事件帧
type BuildEvent struct {
	Type EventType `json:"type"`
	Data string    `json:"data"`
}

// BranchInfo git分支列表查询结果
type BranchInfo struct {
	Branches      []string `json:"branches"`
	CurrentBranch string   `json:"currentBranch"`
}
