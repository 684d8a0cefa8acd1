package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Status 贷款申请生命周期状态
type Status string

// 生命周期状态常量
const (
	StatusReceived Status = "received"
	StatusVerified Status = "verified"
	StatusAssigned Status = "assigned"
	StatusAnalyzed Status = "analyzed"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusArchived Status = "archived"
)

// allowedTransitions 状态机邻接表，未列出的转换一律非法
var allowedTransitions = map[Status][]Status{
	StatusReceived: {StatusVerified, StatusArchived},
	StatusVerified: {StatusAssigned, StatusArchived},
	StatusAssigned: {StatusAnalyzed, StatusArchived},
	StatusAnalyzed: {StatusApproved, StatusRejected, StatusArchived},
	StatusApproved: {StatusArchived},
	StatusRejected: {StatusArchived},
	StatusArchived: {},
}

// ParseStatus 解析状态字符串
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := allowedTransitions[s]; !ok {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

// String 实现 fmt.Stringer
func (s Status) String() string { return string(s) }

// IsTerminal 是否终态
func (s Status) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// CanTransitionTo 当前状态是否允许转换到目标状态
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// AllowedNext 当前状态允许的目标状态列表，字典序
func (s Status) AllowedNext() []Status {
	next := append([]Status(nil), allowedTransitions[s]...)
	sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
	return next
}

func joinStatuses(statuses []Status) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
