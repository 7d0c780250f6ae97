package uuid

import (
	"strings"

	"github.com/google/uuid"
)

// GenUUID32 生成32位无连字符uuid
func GenUUID32() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// GenUUID16 生成16位短uuid，用作请求id
func GenUUID16() string {
	return GenUUID32()[:16]
}
