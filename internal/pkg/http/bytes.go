package http

import (
	"math"
	"strconv"
)

var byteUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatBytes 将字节数格式化为可读字符串，例如 10 MB、1.5 KB
func FormatBytes(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}

	i := 0
	for i < len(byteUnits)-1 && n >= int64(1)<<(10*(i+1)) {
		i++
	}

	value := math.Round(float64(n)/float64(int64(1)<<(10*i))*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + byteUnits[i]
}
