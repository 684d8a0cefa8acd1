// Package validation 提供多米尼加身份标识格式校验（11 位 NID、10 位电话号码）
package validation

import "regexp"

var (
	nidPattern   = regexp.MustCompile(`^\d{11}$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
)

// ValidNID 校验国民身份证号是否为恰好 11 位数字
func ValidNID(nid string) bool {
	return nidPattern.MatchString(nid)
}

// ValidPhone 校验电话号码是否为恰好 10 位数字
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
