//go:build !android

package utils

// EnsureStorageDir 桌面平台上 gdata 自行创建存储目录
func EnsureStorageDir() error {
	return nil
}

// GetStoragePath 非 Android 平台返回空字符串
func GetStoragePath() string {
	return ""
}
