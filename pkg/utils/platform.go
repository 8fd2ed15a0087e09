package utils

// mobileEmulateEnv 设为 1 时桌面端按移动端处理（本地调试触摸布局）
const mobileEmulateEnv = "ERASABLE_MOBILE_EMULATE"

// touchBrushScale 移动端笔刷放大倍数，手指比鼠标指针粗
const touchBrushScale = 2

// PointerBrushSize 按平台调整比例笔刷尺寸，size <= 0（使用像素半径）时原样返回
func PointerBrushSize(size float64) float64 {
	if size > 0 && IsMobile() {
		return size * touchBrushScale
	}
	return size
}
