//go:build !mobile

package utils

import "os"

// IsMobile 桌面端返回 false，除非设置了 ERASABLE_MOBILE_EMULATE=1
func IsMobile() bool {
	return os.Getenv(mobileEmulateEnv) == "1"
}
