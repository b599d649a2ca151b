// Package size defines the byte size units used when capping journals and payloads.
package size

const (
	B = float64(1)

	KB = 1e3 * B
	MB = 1e6 * B
	GB = 1e9 * B
	TB = 1e12 * B

	KiB = float64(1 << 10)
	MiB = float64(1 << 20)
	GiB = float64(1 << 30)
	TiB = float64(1 << 40)
)
