package assignment

import "unicode"

// validSectionID 班级标识会出现在 URL 路径段中，只允许字母、数字、- 和 _
func validSectionID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return false
		}
	}
	return true
}

// sectionLabel 生成第 n 个（从 0 开始）默认班级标识：A…Z, AA…AZ, BA…
func sectionLabel(n int) string {
	var buf []byte
	for n >= 0 {
		buf = append([]byte{byte('A' + n%26)}, buf...)
		n = n/26 - 1
	}
	return string(buf)
}
