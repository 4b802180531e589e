package libdma

// A Record is a row managed by the dma API.
type Record struct {
	ID       int64  `json:"id"`
	Data     string `json:"data"`
	Username string `json:"username"`
}
