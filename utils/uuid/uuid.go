package uuid

import (
	"strings"

	"github.com/google/uuid"
)

// GenUUID 生成标准uuid字符串
func GenUUID() string {
	return uuid.NewString()
}

// GenUUID16 生成16位短id，用于requestId等场景
func GenUUID16() string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	return s[:16]
}
